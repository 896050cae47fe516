package scanner

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// maxRedirects caps the redirect chain the resolver will follow.
const maxRedirects = 10

var errTooManyRedirects = errors.New("stopped after 10 redirects")

// Resolver follows redirects to find where a link actually lands.
type Resolver struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

func NewResolver(timeout time.Duration, userAgent string, logger *slog.Logger) *Resolver {
	return &Resolver{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errTooManyRedirects
				}
				return nil
			},
		},
		userAgent: userAgent,
		logger:    logger,
	}
}

// Resolve sends a HEAD request and returns the URL of the last hop. Any
// failure is logged and rawURL is returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		r.logger.Warn("unrolling url failed", "url", rawURL, "error", err)
		return rawURL
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("unrolling url failed", "url", rawURL, "error", err)
		return rawURL
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	r.logger.Debug("url unrolled",
		"url", rawURL,
		"final_url", final,
		"hops", redirectHops(resp),
		"status", resp.StatusCode,
	)
	return final
}

// redirectHops walks back through the responses that led to resp.
func redirectHops(resp *http.Response) int {
	hops := 0
	for req := resp.Request; req != nil && req.Response != nil; req = req.Response.Request {
		hops++
	}
	return hops
}

// NormalizeURL trims the input and adds https:// when no http(s) scheme
// is present.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return "https://" + raw
}
