package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.ResolveTimeout != 5*time.Second {
		t.Errorf("ResolveTimeout = %v, want 5s", cfg.ResolveTimeout)
	}
	if cfg.LookupTimeout != 10*time.Second {
		t.Errorf("LookupTimeout = %v, want 10s", cfg.LookupTimeout)
	}
	if cfg.MockDelay != 500*time.Millisecond {
		t.Errorf("MockDelay = %v, want 500ms", cfg.MockDelay)
	}
	if cfg.AllowedOrigin != "*" {
		t.Errorf("AllowedOrigin = %q, want *", cfg.AllowedOrigin)
	}
	if cfg.Enrich {
		t.Error("Enrich should be off by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfig_HasAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want bool
	}{
		{key: "", want: false},
		{key: PlaceholderAPIKey, want: false},
		{key: "real-key", want: true},
	}
	for _, tt := range tests {
		cfg := Config{VTAPIKey: tt.key}
		if got := cfg.HasAPIKey(); got != tt.want {
			t.Errorf("HasAPIKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{name: "empty port", modify: func(c *Config) { c.Port = "" }, want: ErrEmptyPort},
		{name: "zero resolve timeout", modify: func(c *Config) { c.ResolveTimeout = 0 }, want: ErrInvalidResolveTimeout},
		{name: "negative lookup timeout", modify: func(c *Config) { c.LookupTimeout = -time.Second }, want: ErrInvalidLookupTimeout},
		{name: "negative mock delay", modify: func(c *Config) { c.MockDelay = -1 }, want: ErrInvalidMockDelay},
		{name: "zero mock delay is allowed", modify: func(c *Config) { c.MockDelay = 0 }, want: nil},
		{name: "empty base url", modify: func(c *Config) { c.VTBaseURL = "" }, want: ErrEmptyBaseURL},
	}

	for _, tt := range tests {
		tt := tt // per-iteration copy (go < 1.22 loop semantics)
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.modify(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "port: \"9090\"\nlookup_timeout: 7s\nmock_delay: 0s\nenrich: true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.LookupTimeout != 7*time.Second {
		t.Errorf("LookupTimeout = %v, want 7s", cfg.LookupTimeout)
	}
	if cfg.MockDelay != 0 {
		t.Errorf("MockDelay = %v, want 0", cfg.MockDelay)
	}
	if !cfg.Enrich {
		t.Error("Enrich = false, want true")
	}
	if cfg.ResolveTimeout != DefaultResolveTimeout {
		t.Errorf("ResolveTimeout changed to %v", cfg.ResolveTimeout)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	cfg := Default()
	err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"), &cfg)
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvAPIKey:        "k",
		EnvPort:          "8081",
		EnvEnrich:        "true",
		EnvAllowedOrigin: "chrome-extension://abc",
		EnvMockDelay:     "0s",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := ApplyEnv(&cfg, lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.VTAPIKey != "k" || cfg.Port != "8081" || !cfg.Enrich {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.AllowedOrigin != "chrome-extension://abc" {
		t.Errorf("AllowedOrigin = %q", cfg.AllowedOrigin)
	}
	if cfg.MockDelay != 0 {
		t.Errorf("MockDelay = %v, want 0", cfg.MockDelay)
	}
}

func TestApplyEnv_BadValues(t *testing.T) {
	t.Parallel()

	for _, key := range []string{EnvEnrich, EnvMockDelay} {
		cfg := Default()
		lookup := func(k string) (string, bool) {
			if k == key {
				return "garbage", true
			}
			return "", false
		}
		if err := ApplyEnv(&cfg, lookup); err == nil {
			t.Errorf("%s=garbage: expected error", key)
		}
	}
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), filepath.Join(t.TempDir(), ".env"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}
}

func TestLoad_FileAndEnvFile(t *testing.T) {
	t.Setenv(EnvAllowedOrigin, "")
	os.Unsetenv(EnvAllowedOrigin)
	t.Setenv(EnvAPIKey, "from-env")
	t.Setenv(EnvPort, "")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(cfgPath, []byte("vt_api_key: from-file\nport: \"7000\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(envPath, []byte(EnvAllowedOrigin+"=chrome-extension://xyz\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath, envPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VTAPIKey != "from-env" {
		t.Errorf("VTAPIKey = %q, want environment to win", cfg.VTAPIKey)
	}
	if cfg.Port != "7000" {
		t.Errorf("Port = %q, want 7000 from file", cfg.Port)
	}
	if cfg.AllowedOrigin != "chrome-extension://xyz" {
		t.Errorf("AllowedOrigin = %q, want value from env file", cfg.AllowedOrigin)
	}
}
