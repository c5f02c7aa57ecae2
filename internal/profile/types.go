package profile

// DegreeLevel is the hard tier filter applied to the course catalog.
// Recommendations never mix tiers in one answer.
type DegreeLevel string

const (
	Bachelors DegreeLevel = "Bachelor's Degree"
	Masters   DegreeLevel = "Master's Degree"
)

// WorkPreferences is the fixed choice list offered at intake.
var WorkPreferences = []string{
	"People",
	"Machines or Code",
	"Creative Tools",
	"Numbers and Data",
}

// InterestLabels is the fixed vocabulary for certificate-derived interests.
var InterestLabels = []string{"Design", "Sports", "Music", "Technology"}

// Mark is a single subject score, kept in marksheet line order so strength
// ties resolve the way the document reads.
type Mark struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

// StudentProfile is the structured summary of a student's academics, stated
// preferences, and extracurriculars. It is built once per session and never
// mutated afterwards.
type StudentProfile struct {
	Strengths        []string `json:"strengths"`
	Interests        []string `json:"interests"`
	FavoriteSubjects []string `json:"favorite_subjects"`
	Aspiration       string   `json:"aspiration"`
	WorkPreference   []string `json:"work_preference"`
	ExtraCurricular  string   `json:"extra_curricular_details"`

	DegreeLevel DegreeLevel `json:"degree_level"`

	// Enrichment fields derived at build time and consumed by matching and
	// prompting.
	Activities          []string `json:"activities,omitempty"`
	DerivedSkills       []string `json:"derived_skills,omitempty"`
	NeedsClarification  bool     `json:"needs_clarification,omitempty"`
	ClarifyingQuestions []string `json:"clarifying_questions,omitempty"`
	CompletenessScore   int      `json:"completeness_score"`
}
