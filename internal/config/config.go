package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration. Loaded once at startup;
// missing required values fail fast before any request is served.
type Config struct {
	Server         ServerConfig   `mapstructure:"server"`
	Webhook        WebhookConfig  `mapstructure:"webhook" validate:"required"`
	GitHub         GitHubConfig   `mapstructure:"github" validate:"required"`
	Content        ContentConfig  `mapstructure:"content"`
	Sync           SyncConfig     `mapstructure:"sync"`
	Database       DatabaseConfig `mapstructure:"database" validate:"required"`
	IgnorePatterns []string       `mapstructure:"ignore_patterns"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// WebhookConfig holds webhook verification settings.
type WebhookConfig struct {
	Secret string `mapstructure:"secret" validate:"required"`
}

// GitHubConfig identifies the content repository.
type GitHubConfig struct {
	Owner  string `mapstructure:"owner" validate:"required"`
	Repo   string `mapstructure:"repo" validate:"required"`
	Token  string `mapstructure:"token"`
	Branch string `mapstructure:"branch"`
}

// ContentConfig locates content files within the repository.
type ContentConfig struct {
	Root string `mapstructure:"root" validate:"required"`
}

// SyncConfig holds sync behavior tunables.
type SyncConfig struct {
	Workers          int `mapstructure:"workers" validate:"min=1"`
	ReadingSpeedWPM  int `mapstructure:"reading_speed_wpm" validate:"min=1"`
	ExcerptMaxLength int `mapstructure:"excerpt_max_length" validate:"min=1"`
	DebounceMs       int `mapstructure:"debounce_ms"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Database string `mapstructure:"database" validate:"required"`
	SSLMode  string `mapstructure:"sslmode"`
}

// ConnectionString returns the PostgreSQL connection string.
func (d *DatabaseConfig) ConnectionString() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "require"
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, sslMode,
	)
}

// Addr returns the listen address for the HTTP server.
func (s *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		GitHub: GitHubConfig{
			Branch: "main",
		},
		Content: ContentConfig{
			Root: "content",
		},
		Sync: SyncConfig{
			Workers:          8,
			ReadingSpeedWPM:  200,
			ExcerptMaxLength: 160,
			DebounceMs:       2000,
		},
		Database: DatabaseConfig{
			Port:    5432,
			SSLMode: "require",
		},
		IgnorePatterns: []string{
			".git/**",
			"**/.DS_Store",
			"**/node_modules/**",
		},
	}
}

// Load reads configuration from file and environment.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("server.port", defaults.Server.Port)
	v.SetDefault("github.branch", defaults.GitHub.Branch)
	v.SetDefault("content.root", defaults.Content.Root)
	v.SetDefault("sync.workers", defaults.Sync.Workers)
	v.SetDefault("sync.reading_speed_wpm", defaults.Sync.ReadingSpeedWPM)
	v.SetDefault("sync.excerpt_max_length", defaults.Sync.ExcerptMaxLength)
	v.SetDefault("sync.debounce_ms", defaults.Sync.DebounceMs)
	v.SetDefault("database.port", defaults.Database.Port)
	v.SetDefault("database.sslmode", defaults.Database.SSLMode)
	v.SetDefault("ignore_patterns", defaults.IgnorePatterns)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/markhook")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("MARKHOOK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is okay if we have environment variables
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}
