package scanner

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"link-forensics/config"
)

// maxReportSize bounds how much of a VirusTotal response is decoded.
const maxReportSize = 5 << 20

var (
	// ErrNoAPIKey means live lookups are disabled.
	ErrNoAPIKey = errors.New("virustotal api key not set")
	// ErrMalformedReport means the response lacked the fields a verdict needs.
	ErrMalformedReport = errors.New("malformed virustotal report")
)

// UpstreamStatusError is returned for any status other than 200 and 404.
type UpstreamStatusError struct {
	StatusCode int
	Status     string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("virustotal api error: %s", e.Status)
}

// URLReport is the subset of the VirusTotal v3 URL object we read.
type URLReport struct {
	Data *URLData `json:"data"`
}

type URLData struct {
	Attributes *URLAttributes `json:"attributes"`
}

type URLAttributes struct {
	LastAnalysisStats *VendorStats `json:"last_analysis_stats"`
}

// Stats extracts the vendor counts. A report without data or attributes is
// malformed; missing stats count as zero.
func (r *URLReport) Stats() (VendorStats, error) {
	if r == nil || r.Data == nil || r.Data.Attributes == nil {
		return VendorStats{}, ErrMalformedReport
	}
	if r.Data.Attributes.LastAnalysisStats == nil {
		return VendorStats{}, nil
	}
	return *r.Data.Attributes.LastAnalysisStats, nil
}

// cleanReport stands in for URLs VirusTotal has never seen.
func cleanReport() *URLReport {
	return &URLReport{Data: &URLData{Attributes: &URLAttributes{LastAnalysisStats: &VendorStats{}}}}
}

// URLID encodes a URL the way the v3 API identifies it: URL-safe base64
// without padding.
func URLID(rawURL string) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString([]byte(rawURL)), "=")
}

// VirusTotal queries the v3 URL report endpoint.
type VirusTotal struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

func NewVirusTotal(cfg config.Config, logger *slog.Logger) *VirusTotal {
	key := cfg.VTAPIKey
	if !cfg.HasAPIKey() {
		key = ""
	}
	return &VirusTotal{
		baseURL: strings.TrimRight(cfg.VTBaseURL, "/"),
		apiKey:  key,
		client:  &http.Client{Timeout: cfg.LookupTimeout},
		logger:  logger,
	}
}

// Available reports whether an API key is configured.
func (v *VirusTotal) Available() bool {
	return v.apiKey != ""
}

// Analyze fetches the report for rawURL. A 404 yields a clean report,
// since VirusTotal has no record of the URL.
func (v *VirusTotal) Analyze(ctx context.Context, rawURL string) (*URLReport, error) {
	if !v.Available() {
		v.logger.Warn("virustotal api key not set, live lookup skipped")
		return nil, ErrNoAPIKey
	}

	reqURL := v.baseURL + "/urls/" + URLID(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-apikey", v.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query virustotal: %w", err)
	}
	defer resp.Body.Close()

	v.logger.Debug("virustotal responded",
		"url", rawURL,
		"status", resp.StatusCode,
		"elapsed", time.Since(start),
	)

	switch resp.StatusCode {
	case http.StatusOK:
		var report URLReport
		if err := json.NewDecoder(io.LimitReader(resp.Body, maxReportSize)).Decode(&report); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
		}
		return &report, nil
	case http.StatusNotFound:
		v.logger.Info("url not found in virustotal", "url", rawURL)
		return cleanReport(), nil
	default:
		return nil, &UpstreamStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
}
