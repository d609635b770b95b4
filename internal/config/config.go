// Package config loads scout configuration from a JSON config file and
// SCOUT_* environment variables. Environment variables override file values;
// the Groq API key is env-only and never written to disk.
package config

import "fmt"

type Config struct {
	Server  ServerConfig
	Groq    GroqConfig
	Storage StorageConfig
	Chat    ChatConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port     int
	APIToken string // optional; bearer auth is disabled when empty
}

type GroqConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type StorageConfig struct {
	DataDir string
	Driver  string // "sqlite" (default) or "json"
}

type ChatConfig struct {
	Temperature  float64
	MaxTokens    int
	HistoryLimit int
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 4400,
		},
		Groq: GroqConfig{
			Model:   "llama-3.3-70b-versatile",
			BaseURL: "https://api.groq.com/openai/v1",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
			Driver:  "sqlite",
		},
		Chat: ChatConfig{
			Temperature:  0.7,
			MaxTokens:    1000,
			HistoryLimit: 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from $XDG_CONFIG_HOME/scout/config.json with
// SCOUT_* environment overrides. The Groq API key is required.
func Load() (Config, error) {
	return loadRequiredWith(newFileBackend())
}

// LoadLocal is Load without the Groq API key requirement, for commands
// that never call the generative backend.
func LoadLocal() (Config, error) {
	return loadWith(newFileBackend())
}

func loadRequiredWith(b Backend) (Config, error) {
	cfg, err := loadWith(b)
	if err != nil {
		return Config{}, err
	}
	if cfg.Groq.APIKey == "" {
		return Config{}, fmt.Errorf("missing required config: Groq API key. " +
			"Set it via environment variable SCOUT_GROQ_API_KEY")
	}
	return cfg, nil
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()

	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}

	applyEnvOverrides(&cfg)

	return cfg, nil
}
