package catalog

import "strings"

// CourseRecord is one course offering from the scraped catalog.
type CourseRecord struct {
	Degree    string   `json:"degree"`
	Course    string   `json:"course"`
	Subjects  []string `json:"subjects,omitempty"`
	SourceURL string   `json:"source_url"`
}

// Meaningful reports whether the course name carries enough words to be a
// real offering. Page scrapes pick up stray headings and navigation text;
// anything under 3 words is noise and every consumer skips it.
func (c CourseRecord) Meaningful() bool {
	return len(strings.Fields(c.Course)) >= 3
}
