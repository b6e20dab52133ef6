package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Library   LibraryConfig   `mapstructure:"library"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite only for now
	DSN    string `mapstructure:"dsn"`
}

// LibraryConfig holds rule library settings
type LibraryConfig struct {
	// Path to a JSON library document. Empty means the compiled-in table.
	Path string `mapstructure:"path"`

	// Google Sheets template overrides, applied on top of the loaded table.
	Sheets SheetsConfig `mapstructure:"sheets"`
}

// SheetsConfig holds the template spreadsheet settings
type SheetsConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	SpreadsheetID      string `mapstructure:"spreadsheet_id"`
	CredentialsFile    string `mapstructure:"credentials_file"`
	ServiceAccountJSON string `mapstructure:"service_account_json"`
}

// AnthropicConfig holds Claude API settings
type AnthropicConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// RetrievalConfig holds background-context retrieval settings
type RetrievalConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	MaxSnippets int           `mapstructure:"max_snippets"`
	Feeds       []SnippetFeed `mapstructure:"feeds"`
	Vector      VectorConfig  `mapstructure:"vector"`
}

// SnippetFeed represents a single RSS snippet feed
type SnippetFeed struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

// VectorConfig holds local vector store settings for curated notes
type VectorConfig struct {
	Enabled    bool    `mapstructure:"enabled"`
	Path       string  `mapstructure:"path"`
	ConfigPath string  `mapstructure:"config_path"`
	Threshold  float32 `mapstructure:"threshold"`
}

// SchedulerConfig holds cron daemon settings
type SchedulerConfig struct {
	RefreshCron string `mapstructure:"refresh_cron"` // keyword pool refresh
	ReloadCron  string `mapstructure:"reload_cron"`  // library file reload
	HealthAddr  string `mapstructure:"health_addr"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json or console
	Output string `mapstructure:"output"` // stdout or file path
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	// Load .env file if present (ignore errors if not found)
	_ = godotenv.Load()
	_ = godotenv.Load(".env.local")

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".content-agent"))
		}
	}

	v.SetEnvPrefix("CONTENT")
	v.AutomaticEnv()

	// Explicit bindings for nested keys (Viper doesn't auto-bind underscored nested keys)
	v.BindEnv("anthropic.api_key", "CONTENT_ANTHROPIC_API_KEY")
	v.BindEnv("database.driver", "CONTENT_DATABASE_DRIVER")
	v.BindEnv("database.dsn", "CONTENT_DATABASE_DSN")
	v.BindEnv("library.path", "CONTENT_LIBRARY_PATH")
	v.BindEnv("library.sheets.enabled", "CONTENT_LIBRARY_SHEETS_ENABLED")
	v.BindEnv("library.sheets.spreadsheet_id", "CONTENT_LIBRARY_SHEETS_SPREADSHEET_ID")
	v.BindEnv("library.sheets.credentials_file", "CONTENT_LIBRARY_SHEETS_CREDENTIALS_FILE")
	v.BindEnv("library.sheets.service_account_json", "CONTENT_LIBRARY_SHEETS_SERVICE_ACCOUNT_JSON")
	v.BindEnv("retrieval.enabled", "CONTENT_RETRIEVAL_ENABLED")
	v.BindEnv("retrieval.vector.enabled", "CONTENT_RETRIEVAL_VECTOR_ENABLED")
	v.BindEnv("retrieval.vector.path", "CONTENT_RETRIEVAL_VECTOR_PATH")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./data/content.db")

	v.SetDefault("library.path", "")
	v.SetDefault("library.sheets.enabled", false)

	v.SetDefault("anthropic.model", "claude-sonnet-4-20250514")
	v.SetDefault("anthropic.max_tokens", 4096)
	v.SetDefault("anthropic.temperature", 0.7)

	v.SetDefault("retrieval.enabled", false)
	v.SetDefault("retrieval.max_snippets", 5)
	v.SetDefault("retrieval.vector.enabled", false)
	v.SetDefault("retrieval.vector.path", "./data/notes.veclite")
	v.SetDefault("retrieval.vector.threshold", 0.25)

	v.SetDefault("scheduler.refresh_cron", "0 6 * * 1") // Mondays 6am
	v.SetDefault("scheduler.reload_cron", "*/30 * * * *")
	v.SetDefault("scheduler.health_addr", ":8090")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stdout")
}

// Validate validates the configuration for commands that call the model
func (c *Config) Validate() error {
	if c.Anthropic.APIKey == "" {
		return fmt.Errorf("anthropic.api_key is required")
	}
	if c.Library.Sheets.Enabled && c.Library.Sheets.SpreadsheetID == "" {
		return fmt.Errorf("library.sheets.spreadsheet_id is required when sheets templates are enabled")
	}
	return nil
}
