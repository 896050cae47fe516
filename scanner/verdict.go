package scanner

import "fmt"

type Verdict string

const (
	VerdictSafe      Verdict = "SAFE"
	VerdictMalicious Verdict = "MALICIOUS"
)

// ScanRequest is the body of POST /scan.
type ScanRequest struct {
	URL string `json:"url"`
}

// ScanVerdict is the response of POST /scan. A new one is built per request.
type ScanVerdict struct {
	Verdict        Verdict `json:"verdict"`
	RiskLevel      string  `json:"risk_level"`
	FinalURL       string  `json:"final_url"`
	ScanRatio      string  `json:"scan_ratio"` // "<flagged>/<total>"
	ServerLocation string  `json:"server_location"`
	DomainAge      string  `json:"domain_age"`

	// Intel is only set when enrichment is turned on.
	Intel *Intel `json:"intel,omitempty"`
}

// Safe reports whether no vendor flagged the URL.
func (v ScanVerdict) Safe() bool {
	return v.Verdict == VerdictSafe
}

// VendorStats counts how the aggregated engines classified a URL.
type VendorStats struct {
	Malicious  int `json:"malicious"`
	Suspicious int `json:"suspicious"`
	Harmless   int `json:"harmless"`
	Undetected int `json:"undetected"`
}

func (s VendorStats) Flagged() int {
	return s.Malicious + s.Suspicious
}

func (s VendorStats) Total() int {
	return s.Malicious + s.Suspicious + s.Harmless + s.Undetected
}

// LiveVerdict maps real vendor statistics to a verdict. One flagging
// vendor is enough to call the URL malicious.
func LiveVerdict(finalURL string, stats VendorStats) ScanVerdict {
	flagged := stats.Flagged()
	safe := flagged == 0

	v := ScanVerdict{
		Verdict:        VerdictMalicious,
		RiskLevel:      "CRITICAL",
		FinalURL:       finalURL,
		ScanRatio:      fmt.Sprintf("%d/%d", flagged, stats.Total()),
		ServerLocation: "Cloud/Unknown",
		DomainAge:      "Unknown",
	}
	if safe {
		v.Verdict = VerdictSafe
		v.RiskLevel = "Safe"
	}
	return v
}
