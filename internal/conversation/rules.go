package conversation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CourseRule detects a course mention in a message. Each alternative is a set
// of substrings that must ALL appear, case-insensitive, within one message;
// the rule matches if any alternative does. Rules are evaluated in order and
// the first match wins, so put more specific rules first.
type CourseRule struct {
	Course string `yaml:"course"`
	// Mention alternatives are used when scanning conversation history.
	Mention [][]string `yaml:"mention"`
	// Explicit alternatives are the stronger same-turn check; when empty,
	// Mention is used for both.
	Explicit [][]string `yaml:"explicit,omitempty"`
}

// Rules is the versioned detection data for the state analyzer: the ordered
// course rule list plus the follow-up and alternative-seeking phrase tables.
type Rules struct {
	Courses      []CourseRule `yaml:"courses"`
	Followups    []string     `yaml:"followup_keywords"`
	Alternatives []string     `yaml:"alternative_keywords"`
}

// DefaultRules returns the built-in detection tables.
func DefaultRules() Rules {
	return Rules{
		Courses: []CourseRule{
			{
				Course:   "B.Des in Animation and Visual Effects",
				Mention:  [][]string{{"b.des in animation"}, {"animation and visual effects"}},
				Explicit: [][]string{{"animation", "b.des"}, {"animation", "visual effects"}},
			},
			{
				Course:  "Computer Science and Engineering",
				Mention: [][]string{{"computer science", "engineering"}},
			},
			{
				Course:  "Bachelor of Technology in Information Science",
				Mention: [][]string{{"bachelor of technology", "information science"}},
			},
			{
				Course:  "Bachelor of Commerce",
				Mention: [][]string{{"b.com"}, {"commerce"}},
			},
		},
		Followups: []string{
			"job opportunities", "career prospects", "employment", "salary", "placement",
			"subjects", "curriculum", "syllabus", "details", "more about", "tell me about",
			"how is", "what about", "opportunities", "scope", "future",
		},
		Alternatives: []string{
			"other options", "different courses", "alternatives", "other courses",
			"something else", "different options", "more options", "other programs",
			"different field", "change", "instead", "rather than", "not interested",
			"don't like", "different area", "explore other", "what else",
			"any other", "show me other", "different degree", "other majors",
		},
	}
}

// LoadRules reads a YAML detection rules file and overlays it on the
// defaults. A section absent from the file keeps its built-in table.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("reading rules %s: %w", path, err)
	}

	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Rules{}, fmt.Errorf("parsing rules %s: %w", path, err)
	}

	rules := DefaultRules()
	if len(loaded.Courses) > 0 {
		rules.Courses = loaded.Courses
	}
	if len(loaded.Followups) > 0 {
		rules.Followups = loaded.Followups
	}
	if len(loaded.Alternatives) > 0 {
		rules.Alternatives = loaded.Alternatives
	}
	return rules, nil
}
