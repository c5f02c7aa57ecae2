package match

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kalambet/advisor/internal/profile"
)

// Ruleset is the declarative keyword data driving degree filtering and
// interest/activity ranking. It is plain data, substitutable from a YAML
// file, so deployments and tests can change tables without touching matcher
// logic.
type Ruleset struct {
	// DegreeKeywords maps a degree level to the course-name keywords that
	// classify a record into that tier.
	DegreeKeywords map[string][]string `yaml:"degree_keywords"`
	// ActivityKeywords maps an activity category to the course keywords it
	// counts as a match for.
	ActivityKeywords map[string][]string `yaml:"activity_keywords"`
}

// DefaultRules returns the built-in tables.
func DefaultRules() Ruleset {
	return Ruleset{
		DegreeKeywords: map[string][]string{
			string(profile.Bachelors): {"bachelor", "b.com", "b.sc", "b.tech", "b.des", "b.p.ed", "undergraduate"},
			string(profile.Masters):   {"master", "m.com", "m.sc", "m.tech", "m.des", "m.p.ed", "postgraduate"},
		},
		ActivityKeywords: map[string][]string{
			"leadership":          {"management", "business", "administration", "leadership"},
			"technical projects":  {"computer", "technology", "engineering", "software"},
			"creative arts":       {"design", "art", "creative", "visual", "communication"},
			"sports":              {"sports", "physical education", "athletics", "fitness"},
			"community service":   {"social work", "psychology", "counseling", "humanities"},
			"academic excellence": {"research", "science", "mathematics", "academic"},
			"performance":         {"music", "performing arts", "media", "communication"},
			"business":            {"business", "commerce", "management", "finance", "entrepreneurship"},
		},
	}
}

// LoadRules reads a YAML rules file and overlays it on the defaults. A table
// absent from the file keeps its built-in value.
func LoadRules(path string) (Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Ruleset{}, fmt.Errorf("reading rules %s: %w", path, err)
	}

	var loaded Ruleset
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Ruleset{}, fmt.Errorf("parsing rules %s: %w", path, err)
	}

	rules := DefaultRules()
	if len(loaded.DegreeKeywords) > 0 {
		rules.DegreeKeywords = loaded.DegreeKeywords
	}
	if len(loaded.ActivityKeywords) > 0 {
		rules.ActivityKeywords = loaded.ActivityKeywords
	}
	return rules, nil
}
