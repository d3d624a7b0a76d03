// Package config loads ideaforge configuration from a JSON file backend
// with IDEAFORGE_* environment overrides.
package config

import (
	"os"
	"path/filepath"
)

// Config is the full runtime configuration.
type Config struct {
	Server   ServerConfig
	LLM      LLMConfig
	Storage  StorageConfig
	Output   OutputConfig
	Trends   TrendsConfig
	Generate GenerateConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port    int
	MCPPort int
	Token   string
}

// LLMConfig configures the external text-generation service. APIKey is only
// required when generation via the LLM is enabled; the heuristic catalog
// pipeline runs without it.
type LLMConfig struct {
	BaseURL string
	Model   string
	APIKey  string
}

type StorageConfig struct {
	DataDir string
}

// OutputConfig controls where session artifacts (JSON/CSV exports) land.
type OutputConfig struct {
	Dir string
}

type TrendsConfig struct {
	Enabled bool
}

type GenerateConfig struct {
	UseLLM bool
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:    4700,
			MCPPort: 4701,
		},
		LLM: LLMConfig{
			BaseURL: "https://openrouter.ai/api/v1",
			Model:   "google/gemini-2.0-flash-001",
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Output: OutputConfig{
			Dir: "recommendation_output",
		},
		Trends: TrendsConfig{
			Enabled: true,
		},
		Generate: GenerateConfig{
			UseLLM: false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from the JSON file backend (XDG config path),
// then applies IDEAFORGE_* environment overrides. A missing LLM API key is
// not an error here; pipeline construction checks it when LLM generation is
// requested.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()
	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func defaultDataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".local", "share")
		} else {
			return "ideaforge-data"
		}
	}
	return filepath.Join(dir, "ideaforge")
}

func configFilePath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".config")
		} else {
			dir = "."
		}
	}
	return filepath.Join(dir, "ideaforge", "config.json")
}
