package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	whois "github.com/likexian/whois"
	whoisparser "github.com/likexian/whois-parser"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/sync/errgroup"
)

// Intel is the optional WHOIS and geolocation data attached to a verdict.
type Intel struct {
	RegisteredDomain string `json:"registered_domain,omitempty"`
	IPAddress        string `json:"ip_address,omitempty"`
	Country          string `json:"country,omitempty"`
	ISP              string `json:"isp,omitempty"`
	WhoisAgeDays     int    `json:"whois_age_days,omitempty"`
	CreatedOn        string `json:"created_on,omitempty"`
}

var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
}

// Enricher looks up who registered a host and where it is served from.
// Both lookups degrade to empty fields on failure.
type Enricher struct {
	geoBaseURL string
	client     *http.Client
	logger     *slog.Logger

	whois    func(domain string) (string, error)
	lookupIP func(ctx context.Context, host string) ([]net.IPAddr, error)
	now      func() time.Time
}

func NewEnricher(geoBaseURL string, timeout time.Duration, logger *slog.Logger) *Enricher {
	wc := whois.NewClient().SetTimeout(timeout)
	return &Enricher{
		geoBaseURL: strings.TrimRight(geoBaseURL, "/"),
		client:     &http.Client{Timeout: timeout},
		logger:     logger,
		whois: func(domain string) (string, error) {
			return wc.Whois(domain)
		},
		lookupIP: net.DefaultResolver.LookupIPAddr,
		now:      time.Now,
	}
}

// Enrich returns nil when finalURL has no host.
func (e *Enricher) Enrich(ctx context.Context, finalURL string) *Intel {
	u, err := url.Parse(finalURL)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	host := u.Hostname()

	intel := &Intel{}
	if net.ParseIP(host) == nil {
		if registered, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
			intel.RegisteredDomain = registered
		}
	}

	var (
		ageDays   int
		createdOn string
		ip        string
		geo       geoInfo
	)

	g, gctx := errgroup.WithContext(ctx)
	if intel.RegisteredDomain != "" {
		g.Go(func() error {
			ageDays, createdOn = e.whoisAge(intel.RegisteredDomain)
			return nil
		})
	}
	g.Go(func() error {
		ip = e.resolveIP(gctx, host)
		if ip != "" {
			geo = e.lookupGeo(gctx, ip)
		}
		return nil
	})
	_ = g.Wait()

	intel.WhoisAgeDays = ageDays
	intel.CreatedOn = createdOn
	intel.IPAddress = ip
	intel.Country = geo.Country
	intel.ISP = geo.ISP
	return intel
}

// whoisAge returns the domain age in days and its creation date.
func (e *Enricher) whoisAge(domain string) (int, string) {
	raw, err := e.whois(domain)
	if err != nil {
		e.logger.Debug("whois query failed", "domain", domain, "error", err)
		return 0, ""
	}

	info, err := whoisparser.Parse(raw)
	if err != nil || info.Domain == nil {
		e.logger.Debug("whois response not parsed", "domain", domain, "error", err)
		return 0, ""
	}

	created := parseWhoisDate(info.Domain.CreatedDate)
	if created.IsZero() {
		return 0, ""
	}
	days := int(e.now().Sub(created).Hours() / 24)
	return days, created.Format("2006-01-02")
}

func parseWhoisDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, l := range whoisDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// resolveIP prefers an IPv4 address.
func (e *Enricher) resolveIP(ctx context.Context, host string) string {
	addrs, err := e.lookupIP(ctx, host)
	if err != nil || len(addrs) == 0 {
		return ""
	}
	for _, a := range addrs {
		if a.IP.To4() != nil {
			return a.IP.String()
		}
	}
	return addrs[0].IP.String()
}

type geoInfo struct {
	Status  string `json:"status"`
	Country string `json:"country"`
	ISP     string `json:"isp"`
}

func (e *Enricher) lookupGeo(ctx context.Context, ip string) geoInfo {
	reqURL := fmt.Sprintf("%s/%s?fields=status,country,isp", e.geoBaseURL, url.PathEscape(ip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return geoInfo{}
	}

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Debug("geo lookup failed", "ip", ip, "error", err)
		return geoInfo{}
	}
	defer resp.Body.Close()

	var info geoInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil || info.Status != "success" {
		return geoInfo{}
	}
	return info
}
