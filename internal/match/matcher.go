// Package match filters the course catalog by degree tier and orders it by
// interest and activity affinity. Filtering is a hard gate; ranking only
// reorders, it never excludes.
package match

import (
	"strings"

	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/profile"
)

// Matcher applies a Ruleset to catalog records.
type Matcher struct {
	rules Ruleset
}

// New creates a Matcher. Pass DefaultRules() unless a deployment overrides
// the tables.
func New(rules Ruleset) *Matcher {
	return &Matcher{rules: rules}
}

// Match runs the full pipeline: degree-tier filter, then three-tier
// interest/activity partition.
func (m *Matcher) Match(records []catalog.CourseRecord, p profile.StudentProfile) []catalog.CourseRecord {
	return m.Rank(m.FilterByDegree(records, p.DegreeLevel), p)
}

// FilterByDegree retains only records whose course name contains at least one
// keyword of the requested tier, case-insensitive. A record that cannot be
// classified into the requested tier is dropped entirely — bachelor's and
// master's offerings never mix in one result.
func (m *Matcher) FilterByDegree(records []catalog.CourseRecord, level profile.DegreeLevel) []catalog.CourseRecord {
	keywords := m.rules.DegreeKeywords[string(level)]

	var filtered []catalog.CourseRecord
	for _, rec := range records {
		name := strings.ToLower(rec.Course)
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				filtered = append(filtered, rec)
				break
			}
		}
	}
	return filtered
}

// Rank partitions records into three tiers — matching both an interest and
// an activity, matching either, matching neither — and concatenates them in
// that order. The partition is stable: catalog order is preserved within each
// tier. With no interests and no activities the input order is returned
// unchanged.
func (m *Matcher) Rank(records []catalog.CourseRecord, p profile.StudentProfile) []catalog.CourseRecord {
	if len(p.Interests) == 0 && len(p.Activities) == 0 {
		return records
	}

	var both, either, neither []catalog.CourseRecord
	for _, rec := range records {
		text := strings.ToLower(rec.Course + " " + rec.Degree)
		interest := m.interestMatch(text, p.Interests)
		activity := m.activityMatch(text, p.Activities)

		switch {
		case interest && activity:
			both = append(both, rec)
		case interest || activity:
			either = append(either, rec)
		default:
			neither = append(neither, rec)
		}
	}

	ranked := make([]catalog.CourseRecord, 0, len(records))
	ranked = append(ranked, both...)
	ranked = append(ranked, either...)
	return append(ranked, neither...)
}

// interestMatch reports whether any interest label, or any single word of a
// label, appears in the course text.
func (m *Matcher) interestMatch(courseText string, interests []string) bool {
	for _, interest := range interests {
		lower := strings.ToLower(interest)
		if strings.Contains(courseText, lower) {
			return true
		}
		for _, word := range strings.Fields(lower) {
			if strings.Contains(courseText, word) {
				return true
			}
		}
	}
	return false
}

// activityMatch reports whether any of the student's activity categories maps
// to a course keyword present in the course text, per the ruleset's
// activity→keyword table.
func (m *Matcher) activityMatch(courseText string, activities []string) bool {
	for _, activity := range activities {
		lower := strings.ToLower(activity)
		for category, keywords := range m.rules.ActivityKeywords {
			if !strings.Contains(lower, category) {
				continue
			}
			for _, kw := range keywords {
				if strings.Contains(courseText, kw) {
					return true
				}
			}
		}
	}
	return false
}
