package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/config"
	"github.com/kalambet/advisor/internal/scrape"
)

// --- scrape ---

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape university program pages into the course catalog",
	Long: `Scrape university program pages into the course catalog.

Reads the URL list from the configured scrape.urls_path file and writes the
extracted course records to the configured catalog.path file.

Examples:
  advisor scrape
  advisor scrape --output ./courses.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if output == "" {
			output = cfg.Catalog.Path
		}

		urls, err := scrape.LoadURLs(cfg.Scrape.URLsPath)
		if err != nil {
			return fmt.Errorf("loading scrape URLs: %w", err)
		}

		printStep("Scraping %d pages...", len(urls))
		scraper := scrape.New(&http.Client{Timeout: 30 * time.Second})
		records := scraper.Scrape(cmd.Context(), urls)
		if len(records) == 0 {
			printWarning("no course records extracted")
		}

		if err := catalog.Save(output, records); err != nil {
			return fmt.Errorf("saving catalog: %w", err)
		}

		printSuccess("Saved %d course records to %s", len(records), output)
		return nil
	},
}

func init() {
	scrapeCmd.Flags().String("output", "", "catalog output path (default: configured catalog.path)")
}

// --- chat ---

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive advisory session",
	Long: `Start an interactive advisory session against a running advisor server.

Uploads the marksheet and any certificates, answers the intake questions from
flags, prints the advisor's opening recommendation, then reads follow-up
messages from stdin until EOF or "exit".

Example:
  advisor chat --marksheet marks.pdf --certificate cert1.pdf \
    --aspiration "software engineer" --work-preference "Machines or Code" \
    --favorite-subjects "Computer Science" --activities "robotics club"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		marksheet, _ := cmd.Flags().GetString("marksheet")
		certificates, _ := cmd.Flags().GetStringSlice("certificate")
		aspiration, _ := cmd.Flags().GetString("aspiration")
		workPref, _ := cmd.Flags().GetStringSlice("work-preference")
		favorites, _ := cmd.Flags().GetString("favorite-subjects")
		activities, _ := cmd.Flags().GetString("activities")
		degreeLevel, _ := cmd.Flags().GetString("degree-level")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		resp, err := client.postSession(ctx, sessionForm{
			MarksheetPath:    marksheet,
			CertificatePaths: certificates,
			Aspiration:       aspiration,
			WorkPreference:   workPref,
			FavoriteSubjects: favorites,
			Activities:       activities,
			DegreeLevel:      degreeLevel,
		})
		if err != nil {
			return err
		}

		var started struct {
			SessionID string `json:"session_id"`
			Reply     string `json:"reply"`
		}
		if err := decodeJSON(resp, &started); err != nil {
			return err
		}

		fmt.Printf("\n%s\n\n%s\n", colorize(colorBold, "Advisor:"), started.Reply)

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 64*1024), 64*1024)
		for {
			fmt.Printf("\n%s ", colorize(colorCyan, "You:"))
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				break
			}

			msgResp, err := client.post(ctx, "/sessions/"+started.SessionID+"/messages", map[string]string{
				"message": line,
			})
			if err != nil {
				return err
			}
			var out struct {
				Reply string `json:"reply"`
			}
			if err := decodeJSON(msgResp, &out); err != nil {
				return err
			}
			fmt.Printf("\n%s\n\n%s\n", colorize(colorBold, "Advisor:"), out.Reply)
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().String("marksheet", "", "path to marksheet PDF (required)")
	chatCmd.Flags().StringSlice("certificate", nil, "path to a certificate PDF (repeatable)")
	chatCmd.Flags().String("aspiration", "", "career or profession in 5-10 years")
	chatCmd.Flags().StringSlice("work-preference", nil, "what you prefer working with (repeatable)")
	chatCmd.Flags().String("favorite-subjects", "", "subjects you enjoy, and why")
	chatCmd.Flags().String("activities", "", "extracurricular activities")
	chatCmd.Flags().String("degree-level", "bachelor", "bachelor or master")
	chatCmd.MarkFlagRequired("marksheet")
}

// --- catalog ---

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Print the loaded course catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		records, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return err
		}

		for _, r := range records {
			fmt.Printf("%s  %s\n", colorize(colorCyan, r.Degree), r.Course)
		}
		printStatus("Total", "%d records", len(records))
		return nil
	},
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		for _, k := range config.ShowAll(cfg) {
			fmt.Printf("  %s = %s\n", colorize(colorBold, k.Key), k.Value)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			printError("%v", err)
			fmt.Printf("valid keys: %s\n", strings.Join(config.ValidKeys(), ", "))
			return err
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
