package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every knob the service reads at startup. Values are resolved
// in three layers: built-in defaults, then an optional YAML file, then
// environment variables. Environment wins.
type Config struct {
	SecretKey       string    `yaml:"secret_key,omitempty"`
	GroqAPIKey      string    `yaml:"groq_api_key,omitempty"`
	AnthropicAPIKey string    `yaml:"anthropic_api_key,omitempty"`
	DatabaseURL     string    `yaml:"database_url,omitempty"`
	Port            int       `yaml:"port,omitempty"`
	Env             string    `yaml:"env,omitempty"`
	Persona         string    `yaml:"persona,omitempty"`
	Provider        string    `yaml:"provider,omitempty"` // "groq" or "anthropic"
	LLM             LLMConfig `yaml:"llm,omitempty"`
}

// LLMConfig holds the sampling parameters sent with every completion call.
type LLMConfig struct {
	Model          string  `yaml:"model,omitempty"`
	Temperature    float32 `yaml:"temperature,omitempty"`
	TopP           float32 `yaml:"top_p,omitempty"`
	MaxTokens      int     `yaml:"max_tokens,omitempty"`
	TimeoutSeconds int     `yaml:"timeout_seconds,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		SecretKey:   "dev_secret_key_change_in_production",
		DatabaseURL: "leads.db",
		Port:        8000,
		Env:         "development",
		Persona:     "sdr",
		Provider:    "groq",
		LLM: LLMConfig{
			Model:          "llama-3.3-70b-versatile",
			Temperature:    0.7,
			TopP:           0.9,
			MaxTokens:      250,
			TimeoutSeconds: 30,
		},
	}
}

// Load resolves the configuration. path names an optional YAML file; an
// empty path or a missing file is not an error. A .env file in the working
// directory is honored before the environment is read.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	_ = gotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.SecretKey = v
	}
	if v := os.Getenv("GROQ_API_KEY"); v != "" {
		c.GroqAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		c.AnthropicAPIKey = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("PERSONA"); v != "" {
		c.Persona = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		c.LLM.Model = v
	}
}

// IsPostgres reports whether DatabaseURL points at a Postgres server rather
// than a SQLite file.
func (c *Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// DatabaseType is the human label used by the health endpoint and the
// startup banner.
func (c *Config) DatabaseType() string {
	if c.IsPostgres() {
		return "PostgreSQL"
	}
	return "SQLite"
}
