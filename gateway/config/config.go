package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendConfig points the gateway at the circle mirror API.
type BackendConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// LogConfig controls log output. When File is set, logs rotate there instead
// of going to stdout.
type LogConfig struct {
	Env        string `yaml:"env"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
}

// Config is the circled service configuration.
type Config struct {
	ListenAddress string        `yaml:"listen"`
	ReadTimeout   time.Duration `yaml:"readTimeout"`
	WriteTimeout  time.Duration `yaml:"writeTimeout"`
	IdleTimeout   time.Duration `yaml:"idleTimeout"`
	Backend       BackendConfig `yaml:"backend"`
	Log           LogConfig     `yaml:"log"`
}

// Default returns the configuration used when no file is supplied.
func Default() Config {
	return Config{
		ListenAddress: ":8170",
		ReadTimeout:   10 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		Backend: BackendConfig{
			Timeout: 15 * time.Second,
		},
	}
}

// Load reads and validates a yaml config file, filling unset fields from the
// defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for obvious misconfiguration.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddress) == "" {
		return errors.New("config: listen address required")
	}
	endpoint := strings.TrimSpace(c.Backend.Endpoint)
	if endpoint == "" {
		return errors.New("config: backend endpoint required")
	}
	parsed, err := url.Parse(endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("config: backend endpoint %q must be an absolute url", endpoint)
	}
	if c.Backend.Timeout < 0 {
		return errors.New("config: backend timeout must not be negative")
	}
	return nil
}
