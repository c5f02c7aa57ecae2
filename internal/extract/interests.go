package extract

import (
	"strings"

	"github.com/kalambet/advisor/internal/profile"
)

// interestKeywords maps certificate text keywords onto the fixed interest
// vocabulary. Several keywords fold into the same label.
var interestKeywords = []struct {
	Keyword string
	Label   string
}{
	{"design", "Design"},
	{"art", "Design"},
	{"paint", "Design"},
	{"sports", "Sports"},
	{"athletics", "Sports"},
	{"football", "Sports"},
	{"music", "Music"},
	{"singing", "Music"},
	{"tech", "Technology"},
	{"code", "Technology"},
	{"programming", "Technology"},
}

// Interests scans the case-folded text of each certificate for interest
// keywords and returns the set of matched labels in vocabulary order. A
// certificate matching no keyword contributes nothing.
func Interests(texts ...string) []string {
	found := make(map[string]bool)
	for _, text := range texts {
		lower := strings.ToLower(text)
		for _, kw := range interestKeywords {
			if strings.Contains(lower, kw.Keyword) {
				found[kw.Label] = true
			}
		}
	}

	var labels []string
	for _, label := range profile.InterestLabels {
		if found[label] {
			labels = append(labels, label)
		}
	}
	return labels
}
