package scanner

import (
	"fmt"
	"unicode/utf8"
)

// MockTotalVendors is the fixed denominator of mock scan ratios.
const MockTotalVendors = 88

var mockLocations = []string{"US", "DE", "CN", "RU", "JP"}

// splitMix64 is the SplitMix64 generator (Steele, Lea, Flood 2014). It is
// small enough to port anywhere, so mock verdicts can be reproduced from
// the seed alone.
type splitMix64 struct {
	state uint64
}

func newSplitMix64(seed uint64) *splitMix64 {
	return &splitMix64{state: seed}
}

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// intn returns a value in [0, n). The modulo bias is below 2^-50 for the
// small n used here.
func (s *splitMix64) intn(n int) int {
	return int(s.next() % uint64(n))
}

// MockVerdict builds the placeholder verdict used when live data is
// unavailable. The result depends only on the number of characters in
// finalURL:
//
//	seed  = rune count of finalURL
//	safe  = intn(4) != 3
//	flagged = 3 + intn(13)       (drawn only when unsafe)
//	location = locations[intn(5)]
//	days  = 10 + intn(4991)
func MockVerdict(finalURL string) ScanVerdict {
	rng := newSplitMix64(uint64(utf8.RuneCountInString(finalURL)))

	safe := rng.intn(4) != 3
	flagged := 0
	if !safe {
		flagged = 3 + rng.intn(13)
	}
	location := mockLocations[rng.intn(len(mockLocations))]
	days := 10 + rng.intn(4991)

	v := ScanVerdict{
		Verdict:        VerdictMalicious,
		RiskLevel:      "DANGER",
		FinalURL:       finalURL,
		ScanRatio:      fmt.Sprintf("%d/%d", flagged, MockTotalVendors),
		ServerLocation: location,
		DomainAge:      fmt.Sprintf("%d days", days),
	}
	if safe {
		v.Verdict = VerdictSafe
		v.RiskLevel = "Keep Walking"
	}
	return v
}
