package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

const validConfig = `
webhook:
  secret: "topsecret"

github:
  owner: "acme"
  repo: "blog-content"

database:
  host: "localhost"
  port: 5432
  user: "markhook"
  password: "pw"
  database: "markhook"
`

func TestLoad_Valid(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Webhook.Secret != "topsecret" {
		t.Errorf("unexpected webhook secret: %q", cfg.Webhook.Secret)
	}
	if cfg.GitHub.Owner != "acme" || cfg.GitHub.Repo != "blog-content" {
		t.Errorf("unexpected github config: %+v", cfg.GitHub)
	}

	// defaults
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Content.Root != "content" {
		t.Errorf("expected default content root, got %q", cfg.Content.Root)
	}
	if cfg.Sync.ReadingSpeedWPM != 200 || cfg.Sync.ExcerptMaxLength != 160 {
		t.Errorf("unexpected sync defaults: %+v", cfg.Sync)
	}
	if cfg.Sync.Workers != 8 {
		t.Errorf("expected default workers 8, got %d", cfg.Sync.Workers)
	}
	if cfg.GitHub.Branch != "main" {
		t.Errorf("expected default branch main, got %q", cfg.GitHub.Branch)
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	content := `
github:
  owner: "acme"
  repo: "blog-content"

database:
  host: "localhost"
  user: "markhook"
  password: "pw"
  database: "markhook"
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("expected validation error for missing webhook secret")
	}
}

func TestLoad_MissingDatabase(t *testing.T) {
	content := `
webhook:
  secret: "topsecret"

github:
  owner: "acme"
  repo: "blog-content"
`
	if _, err := Load(writeConfig(t, content)); err == nil {
		t.Error("expected validation error for missing database settings")
	}
}

func TestConnectionString(t *testing.T) {
	d := &DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "u",
		Password: "p",
		Database: "content",
	}

	want := "postgres://u:p@db.internal:5433/content?sslmode=require"
	if got := d.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}

	d.SSLMode = "disable"
	if got := d.ConnectionString(); got != "postgres://u:p@db.internal:5433/content?sslmode=disable" {
		t.Errorf("unexpected connection string: %q", got)
	}
}
