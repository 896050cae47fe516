package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestSecureHandler_MasksSensitiveAttrs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		key      string
		value    string
		wantMask bool
	}{
		{name: "x-apikey header", key: "x-apikey", value: "abc", wantMask: true},
		{name: "uppercase api key", key: "API_KEY", value: "abc", wantMask: true},
		{name: "token keyword", key: "session_token", value: "abc", wantMask: true},
		{name: "virustotal shaped value", key: "value", value: strings.Repeat("ab", 32), wantMask: true},
		{name: "bearer value", key: "hdr", value: "Bearer xyz", wantMask: true},
		{name: "plain url", key: "url", value: "https://example.com", wantMask: false},
		{name: "short hex", key: "id", value: "deadbeef", wantMask: false},
	}

	for _, tt := range tests {
		tt := tt // per-iteration copy (go < 1.22 loop semantics)
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			logger := New(&buf, false)
			logger.Info("msg", tt.key, tt.value)

			out := buf.String()
			masked := strings.Contains(out, Mask)
			if masked != tt.wantMask {
				t.Errorf("masked = %v, want %v (output %q)", masked, tt.wantMask, out)
			}
			if tt.wantMask && strings.Contains(out, tt.value) {
				t.Errorf("output leaked value %q: %q", tt.value, out)
			}
		})
	}
}

func TestSecureHandler_MasksGroupsAndWithAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSON(&buf, false).With("api_key", "leak-me")
	logger.Info("request", slog.Group("headers", slog.String("x-apikey", "leak-me-too")))

	out := buf.String()
	if strings.Contains(out, "leak-me") {
		t.Fatalf("secret leaked: %s", out)
	}

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json log line: %v", err)
	}
	if entry["api_key"] != Mask {
		t.Errorf("api_key = %v, want %q", entry["api_key"], Mask)
	}
}

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	var quiet, verbose bytes.Buffer
	New(&quiet, false).Debug("hidden")
	New(&verbose, true).Debug("shown")

	if quiet.Len() != 0 {
		t.Errorf("debug written without verbose: %q", quiet.String())
	}
	if !strings.Contains(verbose.String(), "shown") {
		t.Errorf("debug missing with verbose: %q", verbose.String())
	}
}
