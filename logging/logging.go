// Package logging builds the slog loggers used by the service. Every logger
// it returns masks API keys and other credentials before they reach output.
package logging

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"strings"
)

// Mask replaces any sensitive attribute value.
const Mask = "***REDACTED***"

var sensitiveKeys = map[string]bool{
	"x-apikey":      true,
	"apikey":        true,
	"api_key":       true,
	"api-key":       true,
	"vt_api_key":    true,
	"authorization": true,
	"cookie":        true,
	"set-cookie":    true,
}

var sensitiveKeywords = []string{"secret", "token", "password", "credential"}

var sensitivePatterns = []*regexp.Regexp{
	// VirusTotal keys are 64 lowercase hex characters.
	regexp.MustCompile(`^[a-f0-9]{64}$`),
	regexp.MustCompile(`(?i)^bearer\s+.+`),
}

// SecureHandler wraps another slog.Handler and masks sensitive attributes.
type SecureHandler struct {
	next slog.Handler
}

// NewSecureHandler wraps next. A nil next falls back to the default handler.
func NewSecureHandler(next slog.Handler) *SecureHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &SecureHandler{next: next}
}

func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(sanitize(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = sanitize(a)
	}
	return &SecureHandler{next: h.next.WithAttrs(clean)}
}

func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{next: h.next.WithGroup(name)}
}

func sanitize(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, g := range group {
			clean[i] = sanitize(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}

	key := strings.ToLower(a.Key)
	if sensitiveKeys[key] || hasSensitiveKeyword(key) {
		return slog.String(a.Key, Mask)
	}

	if a.Value.Kind() == slog.KindString {
		v := a.Value.String()
		for _, p := range sensitivePatterns {
			if p.MatchString(v) {
				return slog.String(a.Key, Mask)
			}
		}
	}
	return a
}

func hasSensitiveKeyword(key string) bool {
	for _, kw := range sensitiveKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// New returns a text logger writing to w. Verbose lowers the level to debug.
func New(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, options(verbose))))
}

// NewJSON is New with JSON output, for log collectors.
func NewJSON(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, options(verbose))))
}

// Discard returns a logger that drops everything. Tests use it.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func options(verbose bool) *slog.HandlerOptions {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
