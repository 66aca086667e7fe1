// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"caselens/internal/paths"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. CASELENS_STORAGE_BACKEND.
const EnvPrefix = "CASELENS"

// DefaultMaxUploadBytes is the per-file upload limit (150 MiB).
const DefaultMaxUploadBytes int64 = 150 << 20

// Config represents the application configuration
type Config struct {
	Storage    StorageConfig    `yaml:"storage" toml:"storage" json:"storage" envconfig:"STORAGE"`
	Analysis   AnalysisConfig   `yaml:"analysis" toml:"analysis" json:"analysis" envconfig:"ANALYSIS"`
	Extraction ExtractionConfig `yaml:"extraction" toml:"extraction" json:"extraction" envconfig:"EXTRACTION"`
	Report     ReportConfig     `yaml:"report" toml:"report" json:"report" envconfig:"REPORT"`
	Watch      WatchConfig      `yaml:"watch" toml:"watch" json:"watch" envconfig:"WATCH"`
	Debug      bool             `yaml:"debug" toml:"debug" json:"debug" envconfig:"DEBUG"`
}

// StorageConfig selects where case snapshots live
type StorageConfig struct {
	Backend     string `yaml:"backend" toml:"backend" json:"backend" envconfig:"BACKEND"` // json, sqlite or postgres
	Dir         string `yaml:"dir" toml:"dir" json:"dir" envconfig:"DIR"`
	SQLitePath  string `yaml:"sqlite_path" toml:"sqlite_path" json:"sqlite_path" envconfig:"SQLITE_PATH"`
	PostgresDSN string `yaml:"postgres_dsn" toml:"postgres_dsn" json:"postgres_dsn" envconfig:"POSTGRES_DSN"`
}

// AnalysisConfig configures the LLM collaborator
type AnalysisConfig struct {
	Provider     string        `yaml:"provider" toml:"provider" json:"provider" envconfig:"PROVIDER"` // stub, openai or gemini
	DevMode      bool          `yaml:"dev_mode" toml:"dev_mode" json:"dev_mode" envconfig:"DEV_MODE"`
	OpenAIKey    string        `yaml:"openai_api_key" toml:"openai_api_key" json:"openai_api_key" envconfig:"OPENAI_API_KEY"`
	OpenAIURL    string        `yaml:"openai_base_url" toml:"openai_base_url" json:"openai_base_url" envconfig:"OPENAI_BASE_URL"`
	GeminiKey    string        `yaml:"gemini_api_key" toml:"gemini_api_key" json:"gemini_api_key" envconfig:"GEMINI_API_KEY"`
	Model        string        `yaml:"model" toml:"model" json:"model" envconfig:"MODEL"`
	Timeout      time.Duration `yaml:"timeout" toml:"timeout" json:"timeout" envconfig:"TIMEOUT"`
	MaxRetries   int           `yaml:"max_retries" toml:"max_retries" json:"max_retries" envconfig:"MAX_RETRIES"`
	MaxTokens    int           `yaml:"max_tokens" toml:"max_tokens" json:"max_tokens" envconfig:"MAX_TOKENS"`
	BreakerTrips int           `yaml:"breaker_failures" toml:"breaker_failures" json:"breaker_failures" envconfig:"BREAKER_FAILURES"`
}

// ExtractionConfig configures text extraction
type ExtractionConfig struct {
	MaxUploadBytes int64  `yaml:"max_upload_bytes" toml:"max_upload_bytes" json:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES"`
	OCREnabled     bool   `yaml:"ocr_enabled" toml:"ocr_enabled" json:"ocr_enabled" envconfig:"OCR_ENABLED"`
	Tesseract      string `yaml:"tesseract" toml:"tesseract" json:"tesseract" envconfig:"TESSERACT"`
	Pdftoppm       string `yaml:"pdftoppm" toml:"pdftoppm" json:"pdftoppm" envconfig:"PDFTOPPM"`
	OCRLanguage    string `yaml:"ocr_language" toml:"ocr_language" json:"ocr_language" envconfig:"OCR_LANGUAGE"`
	MinTextChars   int    `yaml:"min_text_chars" toml:"min_text_chars" json:"min_text_chars" envconfig:"MIN_TEXT_CHARS"`
}

// ReportConfig holds report defaults
type ReportConfig struct {
	Format  string `yaml:"format" toml:"format" json:"format" envconfig:"FORMAT"`
	NoColor bool   `yaml:"no_color" toml:"no_color" json:"no_color" envconfig:"NO_COLOR"`
}

// WatchConfig configures the inbox watcher
type WatchConfig struct {
	Inbox    string        `yaml:"inbox" toml:"inbox" json:"inbox" envconfig:"INBOX"`
	Debounce time.Duration `yaml:"debounce" toml:"debounce" json:"debounce" envconfig:"DEBOUNCE"`
}

// Defaults returns the configuration used when no file is present
func Defaults() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend:    "json",
			Dir:        paths.GetCasesDir(),
			SQLitePath: filepath.Join(paths.GetDataDir(), "cases.db"),
		},
		Analysis: AnalysisConfig{
			Provider:     "stub",
			DevMode:      true,
			OpenAIURL:    "https://api.openai.com/v1",
			Timeout:      60 * time.Second,
			MaxRetries:   3,
			MaxTokens:    1500,
			BreakerTrips: 5,
		},
		Extraction: ExtractionConfig{
			MaxUploadBytes: DefaultMaxUploadBytes,
			OCREnabled:     true,
			Tesseract:      "tesseract",
			Pdftoppm:       "pdftoppm",
			OCRLanguage:    "eng",
			MinTextChars:   100,
		},
		Report: ReportConfig{Format: "text"},
		Watch: WatchConfig{
			Inbox:    filepath.Join(paths.GetDataDir(), "inbox"),
			Debounce: 500 * time.Millisecond,
		},
	}
}

// LoadConfig loads configuration from the specified file path. An empty
// path yields the defaults plus environment overrides.
func LoadConfig(configPath string) (*Config, error) {
	cfg := Defaults()

	if configPath != "" {
		cleanPath := filepath.Clean(configPath)
		data, err := os.ReadFile(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := decode(cleanPath, data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	ApplyPlatformDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// decode parses data based on the file extension
func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode YAML: %w", err)
		}
	}
	return nil
}

// ApplyEnv overlays CASELENS_* variables, then the provider-standard
// OPENAI_API_KEY and GEMINI_API_KEY when no key is configured.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("failed to process environment variables: %w", err)
	}
	if cfg.Analysis.OpenAIKey == "" {
		cfg.Analysis.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Analysis.GeminiKey == "" {
		cfg.Analysis.GeminiKey = os.Getenv("GEMINI_API_KEY")
	}
	return nil
}

// FindConfigFile looks for a configuration file in the working directory,
// then in the caselens configuration directory.
func FindConfigFile() string {
	names := []string{"caselens.yaml", "caselens.yml", "caselens.toml", "caselens.json", ".caselens.yaml", ".caselens.toml"}
	for _, name := range names {
		if fileExists(name) {
			return name
		}
	}

	dir := paths.GetConfigDir()
	for _, name := range []string{"config.yaml", "config.yml", "config.toml", "config.json"} {
		candidate := filepath.Join(dir, name)
		if fileExists(candidate) {
			return candidate
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// ApplyPlatformDefaults normalizes configured paths
func ApplyPlatformDefaults(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.Storage.Dir = paths.NormalizePath(cfg.Storage.Dir)
	cfg.Storage.SQLitePath = paths.NormalizePath(cfg.Storage.SQLitePath)
	cfg.Watch.Inbox = paths.NormalizePath(cfg.Watch.Inbox)
}

// ValidateConfig validates the configuration
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	switch cfg.Storage.Backend {
	case "json":
		if cfg.Storage.Dir == "" {
			return fmt.Errorf("storage.dir is required for the json backend")
		}
	case "sqlite":
		if cfg.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case "postgres":
		if cfg.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %q", cfg.Storage.Backend)
	}

	switch cfg.Analysis.Provider {
	case "stub", "openai", "gemini":
	default:
		return fmt.Errorf("unsupported analysis provider: %q", cfg.Analysis.Provider)
	}
	if cfg.Analysis.MaxRetries < 0 {
		return fmt.Errorf("analysis.max_retries must not be negative")
	}

	if cfg.Extraction.MaxUploadBytes <= 0 {
		return fmt.Errorf("extraction.max_upload_bytes must be positive")
	}

	for name, p := range map[string]string{
		"storage.dir":         cfg.Storage.Dir,
		"storage.sqlite_path": cfg.Storage.SQLitePath,
		"watch.inbox":         cfg.Watch.Inbox,
	} {
		if err := paths.ValidatePath(p); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	return nil
}

// LoadConfigOrDefault loads configuration from configFile (or searches standard locations
// when configFile is empty). If loading fails, it returns the defaults and the error.
func LoadConfigOrDefault(configFile string) (*Config, error) {
	configPath := configFile
	if configPath == "" {
		configPath = FindConfigFile()
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Defaults(), err
	}
	return cfg, nil
}
