// Package scanner resolves links to their final destination and classifies
// them with VirusTotal. When live data is unavailable it falls back to a
// deterministic mock verdict, so a scan never fails.
package scanner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"link-forensics/config"
)

// Analyzer fetches a threat report for a URL.
type Analyzer interface {
	Analyze(ctx context.Context, rawURL string) (*URLReport, error)
}

// Scanner runs the resolve, analyze and assemble steps for one URL.
type Scanner struct {
	resolver  *Resolver
	analyzer  Analyzer
	enricher  *Enricher
	mockDelay time.Duration
	live      bool
	logger    *slog.Logger
}

func New(cfg config.Config, logger *slog.Logger) *Scanner {
	s := &Scanner{
		resolver:  NewResolver(cfg.ResolveTimeout, cfg.UserAgent, logger),
		analyzer:  NewVirusTotal(cfg, logger),
		mockDelay: cfg.MockDelay,
		live:      cfg.HasAPIKey(),
		logger:    logger,
	}
	if cfg.Enrich {
		s.enricher = NewEnricher(cfg.GeoBaseURL, cfg.LookupTimeout, logger)
	}
	return s
}

// LiveLookups reports whether VirusTotal will be queried.
func (s *Scanner) LiveLookups() bool {
	return s.live
}

// Scan normalizes rawURL, unrolls it and returns a verdict for the final
// destination. It always returns a verdict.
func (s *Scanner) Scan(ctx context.Context, rawURL string) ScanVerdict {
	target := NormalizeURL(rawURL)
	final := s.resolver.Resolve(ctx, target)

	var intel *Intel
	g, gctx := errgroup.WithContext(ctx)
	if s.enricher != nil {
		g.Go(func() error {
			intel = s.enricher.Enrich(gctx, final)
			return nil
		})
	}

	verdict := s.assess(ctx, final)
	_ = g.Wait()

	verdict.Intel = intel
	s.logger.Info("scan completed",
		"url", target,
		"final_url", final,
		"verdict", verdict.Verdict,
		"scan_ratio", verdict.ScanRatio,
	)
	return verdict
}

func (s *Scanner) assess(ctx context.Context, finalURL string) ScanVerdict {
	report, err := s.analyzer.Analyze(ctx, finalURL)
	if err == nil {
		stats, statsErr := report.Stats()
		if statsErr == nil {
			return LiveVerdict(finalURL, stats)
		}
		err = statsErr
	}

	s.logFallback(finalURL, err)
	sleep(ctx, s.mockDelay)
	return MockVerdict(finalURL)
}

func (s *Scanner) logFallback(finalURL string, err error) {
	var statusErr *UpstreamStatusError
	switch {
	case errors.Is(err, ErrNoAPIKey):
		s.logger.Debug("using mock verdict", "url", finalURL, "reason", "no api key")
	case errors.As(err, &statusErr):
		s.logger.Warn("using mock verdict", "url", finalURL, "status", statusErr.StatusCode)
	default:
		s.logger.Warn("using mock verdict", "url", finalURL, "error", err)
	}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
