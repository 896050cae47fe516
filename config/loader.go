package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = ".linkforensics.yaml"

// DefaultEnvFile is the dotenv file read at startup.
const DefaultEnvFile = ".env"

// Environment variables that override file settings.
const (
	EnvAPIKey        = "VT_API_KEY"
	EnvPort          = "PORT"
	EnvBaseURL       = "VT_BASE_URL"
	EnvEnrich        = "LINKFORENSICS_ENRICH"
	EnvAllowedOrigin = "LINKFORENSICS_ALLOWED_ORIGIN"
	EnvMockDelay     = "LINKFORENSICS_MOCK_DELAY"
)

// Load builds the configuration. configPath may be empty, in which case the
// working directory and the XDG config directory are searched. envFile
// defaults to DefaultEnvFile; a missing env file is not an error.
func Load(configPath, envFile string) (Config, error) {
	cfg := Default()

	file := FindConfigFile(configPath)
	if configPath != "" && file == "" {
		return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}
	if file != "" {
		if err := LoadFile(file, &cfg); err != nil {
			return cfg, err
		}
	}

	if envFile == "" {
		envFile = DefaultEnvFile
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load %s: %w", envFile, err)
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// FindConfigFile returns the first config file that exists, or "".
// An explicit path is only checked itself.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		p := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	if p, err := xdg.SearchConfigFile(filepath.Join(AppName, "config.yaml")); err == nil {
		return p
	}
	return ""
}

// ApplyEnv overrides cfg from the environment as seen through lookup.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		cfg.VTAPIKey = v
	}
	if v, ok := lookup(EnvPort); ok && v != "" {
		cfg.Port = v
	}
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		cfg.VTBaseURL = v
	}
	if v, ok := lookup(EnvAllowedOrigin); ok && v != "" {
		cfg.AllowedOrigin = v
	}
	if v, ok := lookup(EnvEnrich); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvEnrich, err)
		}
		cfg.Enrich = b
	}
	if v, ok := lookup(EnvMockDelay); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMockDelay, err)
		}
		cfg.MockDelay = d
	}
	return nil
}
