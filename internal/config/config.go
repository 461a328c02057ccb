package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config holds flowchart server configuration.
type Config struct {
	Server     ServerConfig     `toml:"server" yaml:"server"`
	Log        LogConfig        `toml:"log" yaml:"log"`
	Generation GenerationConfig `toml:"generation" yaml:"generation"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr string `toml:"addr" yaml:"addr"`
	Seed bool   `toml:"seed" yaml:"seed"` // start from the two-node example canvas
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// GenerationConfig describes the chat-completion endpoint.
type GenerationConfig struct {
	Endpoint       string `toml:"endpoint" yaml:"endpoint"`
	Model          string `toml:"model" yaml:"model"`
	MaxTokens      int    `toml:"max_tokens" yaml:"max_tokens"`
	APIKeyEnv      string `toml:"api_key_env" yaml:"api_key_env"`
	TimeoutSeconds int    `toml:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns TimeoutSeconds as a duration.
func (g GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":3000", Seed: true},
		Log:    LogConfig{Level: "info"},
		Generation: GenerationConfig{
			Endpoint:       "https://api.openai.com/v1/chat/completions",
			Model:          "gpt-4o-mini",
			MaxTokens:      1024,
			APIKeyEnv:      "OPENAI_API_KEY",
			TimeoutSeconds: 60,
		},
	}
}

// Load reads path over the defaults. The format follows the extension:
// .toml, or .yaml/.yml. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported format %q", ext)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the server cannot start with.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr is empty")
	}
	if c.Generation.MaxTokens < 0 {
		return fmt.Errorf("config: generation.max_tokens must not be negative")
	}
	if c.Generation.TimeoutSeconds < 0 {
		return fmt.Errorf("config: generation.timeout_seconds must not be negative")
	}
	return nil
}
