package ratio

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Parse converts an aspect-ratio string to its decimal value. Accepted forms
// are "W:H" (e.g. "16:9") and plain decimals (e.g. "1.85"). Malformed input
// reports ok=false instead of an error.
func Parse(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}

	if num, den, found := strings.Cut(s, ":"); found {
		n, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		if err != nil {
			return 0, false
		}
		d, err := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Candidate is one accepted aspect ratio: the configured text plus its
// decimal value.
type Candidate struct {
	Text  string
	Value float64
}

// ParseCandidates splits a comma-separated ratio list into candidates.
// Entries that fail to parse are dropped silently.
func ParseCandidates(list string) []Candidate {
	parts := strings.Split(list, ",")
	out := make([]Candidate, 0, len(parts))
	for _, part := range parts {
		text := strings.TrimSpace(part)
		v, ok := Parse(text)
		if !ok {
			continue
		}
		out = append(out, Candidate{Text: text, Value: v})
	}
	return out
}

// Nearest returns the candidate whose value is closest to target. Equal
// distances keep the earlier-listed candidate. ok is false when candidates
// is empty.
func Nearest(candidates []Candidate, target float64) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return math.Abs(target-sorted[i].Value) < math.Abs(target-sorted[j].Value)
	})
	return sorted[0], true
}
