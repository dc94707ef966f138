package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8000 {
		t.Fatalf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "leads.db" {
		t.Fatalf("expected default sqlite path, got %q", cfg.DatabaseURL)
	}
	if cfg.LLM.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected default model: %q", cfg.LLM.Model)
	}
	if cfg.LLM.TimeoutSeconds != 30 {
		t.Fatalf("unexpected default timeout: %d", cfg.LLM.TimeoutSeconds)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("DATABASE_URL", "postgres://user:pw@localhost/leads")
	t.Setenv("APP_ENV", "production")
	t.Setenv("PERSONA", "clinica")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9001 {
		t.Fatalf("PORT not applied: %d", cfg.Port)
	}
	if !cfg.IsPostgres() {
		t.Fatal("postgres URL not detected")
	}
	if cfg.DatabaseType() != "PostgreSQL" {
		t.Fatalf("unexpected database type: %q", cfg.DatabaseType())
	}
	if cfg.Env != "production" || cfg.Persona != "clinica" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
}

func TestYAMLFileThenEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leadchat.yaml")
	data := []byte("port: 8100\npersona: clinica\nllm:\n  model: from-file\n")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "8200")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Persona != "clinica" || cfg.LLM.Model != "from-file" {
		t.Fatalf("yaml values not applied: %+v", cfg)
	}
	if cfg.Port != 8200 {
		t.Fatalf("environment should override the file, got port %d", cfg.Port)
	}
}

func TestMissingFileIsNotAnError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing config file should be tolerated: %v", err)
	}
}
