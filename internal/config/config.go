package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"snipai/internal/llm"
)

const (
	defaultRunTimeout = "5m"
	defaultLogLevel   = "info"
)

type Config struct {
	DataDir    string       `yaml:"data_dir"`
	LLM        llm.Config   `yaml:"llm"`
	Upload     UploadConfig `yaml:"upload"`
	RunTimeout string       `yaml:"run_timeout"`
	LogFile    string       `yaml:"log_file"`
	LogLevel   string       `yaml:"log_level"`
}

type UploadConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Load reads the YAML application config. A missing file is not an error;
// defaults apply.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg.WithDefaults(), nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return cfg.WithDefaults(), nil
}

func (c Config) WithDefaults() Config {
	out := c
	if strings.TrimSpace(out.DataDir) == "" {
		out.DataDir = "data"
	}
	if strings.TrimSpace(out.RunTimeout) == "" {
		out.RunTimeout = defaultRunTimeout
	}
	if strings.TrimSpace(out.LogLevel) == "" {
		out.LogLevel = defaultLogLevel
	}
	if strings.TrimSpace(out.LogFile) == "" {
		out.LogFile = filepath.Join(out.DataDir, "snipai.log")
	}
	return out
}

// Timeout returns the bound applied to one pipeline run, covering the AI
// call. Zero means no bound.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(c.RunTimeout))
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// CredentialPath is where the AI provider key lives, inside the data dir.
func (c Config) CredentialPath() string {
	return filepath.Join(c.DataDir, "config.json")
}

// TokenCachePath is where the remote-store authorization token is cached.
func (c Config) TokenCachePath() string {
	return filepath.Join(c.DataDir, "token.json")
}
