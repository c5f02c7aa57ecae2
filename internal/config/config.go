// Package config loads advisor configuration from a JSON file backend with
// ADVISOR_* environment overrides. A .env file in the working directory is
// honored, matching how deployments supply the completion API key.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Catalog    CatalogConfig
	Scrape     ScrapeConfig
	Completion CompletionConfig
	Rules      RulesConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port int
}

type CatalogConfig struct {
	// Path to the pre-scraped JSON-array course catalog.
	Path string
}

type ScrapeConfig struct {
	// URLsPath is the JSON file listing program pages to scrape.
	URLsPath string
}

type CompletionConfig struct {
	// APIKey authenticates against the Mistral API. It is supplied only via
	// environment (MISTRAL_API_KEY); its absence does not fail Load — every
	// completion call will fail at request time instead.
	APIKey string
}

type RulesConfig struct {
	// MatchPath and ConversationPath optionally override the built-in
	// keyword/rule tables with YAML files.
	MatchPath        string
	ConversationPath string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server:  ServerConfig{Port: 4600},
		Catalog: CatalogConfig{Path: "courses.json"},
		Scrape:  ScrapeConfig{URLsPath: "scrape_urls.json"},
		Log:     LogConfig{Level: "info"},
	}
}

// configFilePath returns the JSON config backend location,
// $XDG_CONFIG_HOME/advisor/config.json or the platform equivalent.
func configFilePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "advisor-config.json"
	}
	return filepath.Join(dir, "advisor", "config.json")
}

// Load reads configuration: defaults, then the JSON file backend, then
// environment overrides. Missing credential is not an error here.
func Load() (Config, error) {
	_ = godotenv.Load()
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b ConfigBackend) (Config, error) {
	cfg := defaults()
	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}
