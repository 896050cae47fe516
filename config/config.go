// Package config holds the process-wide settings for the scan service.
//
// Settings are read once at startup and passed to the components that need
// them. Sources are applied in order: built-in defaults, an optional YAML
// file, a .env file, then environment variables.
package config

import "time"

const (
	// AppName is used for the XDG config directory.
	AppName = "link-forensics"

	DefaultPort           = "5000"
	DefaultVTBaseURL      = "https://www.virustotal.com/api/v3"
	DefaultGeoBaseURL     = "http://ip-api.com/json"
	DefaultResolveTimeout = 5 * time.Second
	DefaultLookupTimeout  = 10 * time.Second
	DefaultMockDelay      = 500 * time.Millisecond
	DefaultAllowedOrigin  = "*"

	// DefaultUserAgent makes HEAD requests look like a desktop browser so
	// link shorteners answer with their normal redirect.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	// PlaceholderAPIKey is the value shipped in the sample .env file.
	PlaceholderAPIKey = "YOUR_VT_API_KEY_HERE"
)

// Config is the full service configuration.
type Config struct {
	Port      string `yaml:"port"`
	VTAPIKey  string `yaml:"vt_api_key"`
	VTBaseURL string `yaml:"vt_base_url"`

	ResolveTimeout time.Duration `yaml:"resolve_timeout"`
	LookupTimeout  time.Duration `yaml:"lookup_timeout"`
	MockDelay      time.Duration `yaml:"mock_delay"`

	UserAgent     string `yaml:"user_agent"`
	AllowedOrigin string `yaml:"allowed_origin"`

	// Enrich turns on the WHOIS and geolocation lookups.
	Enrich     bool   `yaml:"enrich"`
	GeoBaseURL string `yaml:"geo_base_url"`
}

// Default returns a Config with every field set to its default.
func Default() Config {
	return Config{
		Port:           DefaultPort,
		VTBaseURL:      DefaultVTBaseURL,
		ResolveTimeout: DefaultResolveTimeout,
		LookupTimeout:  DefaultLookupTimeout,
		MockDelay:      DefaultMockDelay,
		UserAgent:      DefaultUserAgent,
		AllowedOrigin:  DefaultAllowedOrigin,
		GeoBaseURL:     DefaultGeoBaseURL,
	}
}

// HasAPIKey reports whether live VirusTotal lookups can be made.
func (c Config) HasAPIKey() bool {
	return c.VTAPIKey != "" && c.VTAPIKey != PlaceholderAPIKey
}

// Validate checks the values that would break the server at runtime.
func (c Config) Validate() error {
	if c.Port == "" {
		return ErrEmptyPort
	}
	if c.ResolveTimeout <= 0 {
		return ErrInvalidResolveTimeout
	}
	if c.LookupTimeout <= 0 {
		return ErrInvalidLookupTimeout
	}
	if c.MockDelay < 0 {
		return ErrInvalidMockDelay
	}
	if c.VTBaseURL == "" {
		return ErrEmptyBaseURL
	}
	return nil
}
