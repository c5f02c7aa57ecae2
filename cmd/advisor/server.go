package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/advisor/internal/advisor"
	"github.com/kalambet/advisor/internal/api"
	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/composer"
	"github.com/kalambet/advisor/internal/config"
	"github.com/kalambet/advisor/internal/conversation"
	"github.com/kalambet/advisor/internal/match"
	"github.com/kalambet/advisor/internal/proxy"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the advisor server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running advisor server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show advisor server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "advisor.pid"
	}
	return filepath.Join(dir, "advisor", "advisor.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "advisor version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	if cfg.Completion.APIKey == "" {
		printWarning("MISTRAL_API_KEY is not set; completion calls will fail")
	}

	// A missing or unreadable catalog is fatal. Sessions cannot open without it.
	records, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("loading catalog from %s: %w", cfg.Catalog.Path, err)
	}
	slog.Info("catalog loaded", "path", cfg.Catalog.Path, "records", len(records))

	matchRules, err := loadMatchRules(cfg)
	if err != nil {
		return err
	}
	convRules, err := loadConversationRules(cfg)
	if err != nil {
		return err
	}

	// Refuse to start twice. Check the health endpoint, not just the PID file.
	pidPath := pidFilePath()
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("advisor is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("advisor is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	adv := advisor.New(
		records,
		match.New(matchRules),
		conversation.NewAnalyzer(convRules),
		composer.New(),
		proxy.NewClient(cfg.Completion.APIKey),
	)

	handler := api.NewHandler(api.Deps{Advisor: adv, Catalog: records})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// MCP server over stdio, alongside HTTP.
	mcpSrv := api.NewMCPServer(api.MCPDeps{Advisor: adv, Catalog: records})
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "advisor listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func loadMatchRules(cfg config.Config) (match.Ruleset, error) {
	if cfg.Rules.MatchPath == "" {
		return match.DefaultRules(), nil
	}
	rules, err := match.LoadRules(cfg.Rules.MatchPath)
	if err != nil {
		return match.Ruleset{}, fmt.Errorf("loading match rules from %s: %w", cfg.Rules.MatchPath, err)
	}
	return rules, nil
}

func loadConversationRules(cfg config.Config) (conversation.Rules, error) {
	if cfg.Rules.ConversationPath == "" {
		return conversation.DefaultRules(), nil
	}
	rules, err := conversation.LoadRules(cfg.Rules.ConversationPath)
	if err != nil {
		return conversation.Rules{}, fmt.Errorf("loading conversation rules from %s: %w", cfg.Rules.ConversationPath, err)
	}
	return rules, nil
}

func stopServer() error {
	pid, err := readPIDFile(pidFilePath())
	if err != nil {
		printError("advisor is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop advisor (PID %d): %v", pid, err)
		removePIDFile(pidFilePath())
		return err
	}

	printSuccess("Sent stop signal to advisor (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	if records, err := catalog.Load(cfg.Catalog.Path); err != nil {
		printStatus("Catalog", "unavailable (%s)", cfg.Catalog.Path)
	} else {
		printStatus("Catalog", "%d records from %s", len(records), cfg.Catalog.Path)
	}

	if cfg.Completion.APIKey == "" {
		printStatus("Completion", "no API key set")
	} else {
		printStatus("Completion", "API key configured")
	}
	return nil
}
