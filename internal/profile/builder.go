package profile

import (
	"sort"
	"strings"
)

const maxStrengths = 2

// clarificationThreshold is the completeness score below which the advisor
// gathers more information before recommending courses.
const clarificationThreshold = 60

// Answers carries the four free-text/choice intake answers plus the chosen
// degree tier.
type Answers struct {
	Aspiration       string   // career or profession in 5–10 years
	WorkPreference   []string // subset of WorkPreferences
	FavoriteSubjects string   // subjects the student enjoys, and why
	ExtraCurricular  string   // clubs, projects, competitions
	DegreeLevel      DegreeLevel
}

// Build assembles a StudentProfile from extracted marks, certificate-derived
// interest labels, and the intake answers. Marks are taken in document order;
// the top two scores become strengths, ties broken by the order the marksheet
// lists them. Out-of-range scores pass through unchanged.
func Build(marks []Mark, interests []string, ans Answers) StudentProfile {
	sorted := make([]Mark, len(marks))
	copy(sorted, marks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})

	n := len(sorted)
	if n > maxStrengths {
		n = maxStrengths
	}
	strengths := make([]string, 0, n)
	for _, m := range sorted[:n] {
		strengths = append(strengths, m.Subject)
	}

	level := ans.DegreeLevel
	if level == "" {
		level = Bachelors
	}

	p := StudentProfile{
		Strengths:        strengths,
		Interests:        interests,
		FavoriteSubjects: []string{ans.FavoriteSubjects},
		Aspiration:       ans.Aspiration,
		WorkPreference:   ans.WorkPreference,
		ExtraCurricular:  ans.ExtraCurricular,
		DegreeLevel:      level,
	}

	p.Activities, p.DerivedSkills = deriveActivities(ans.ExtraCurricular)
	p.CompletenessScore = completeness(p)
	if p.CompletenessScore < clarificationThreshold {
		p.NeedsClarification = true
		p.ClarifyingQuestions = clarifyingQuestions(p)
	}
	return p
}

// activityTriggers maps free-text activity descriptions onto the activity
// category vocabulary the matcher's lookup table understands. Evaluated in
// order so output is deterministic.
var activityTriggers = []struct {
	Category string
	Keywords []string
}{
	{"leadership", []string{"leader", "captain", "president", "head of", "council"}},
	{"technical projects", []string{"coding", "programming", "robotics", "hackathon", "app", "website"}},
	{"creative arts", []string{"art", "design", "drawing", "painting", "craft"}},
	{"sports", []string{"sport", "football", "cricket", "athletic", "tournament", "match"}},
	{"community service", []string{"volunteer", "ngo", "community", "social service", "charity"}},
	{"academic excellence", []string{"olympiad", "quiz", "scholarship", "research", "science fair"}},
	{"performance", []string{"music", "dance", "drama", "theatre", "singing", "band", "choir"}},
	{"business", []string{"business", "startup", "entrepreneur", "fundrais"}},
}

var skillsByCategory = map[string][]string{
	"leadership":          {"team management", "decision making"},
	"technical projects":  {"problem solving", "technical aptitude"},
	"creative arts":       {"visual thinking", "creativity"},
	"sports":              {"discipline", "teamwork"},
	"community service":   {"empathy", "communication"},
	"academic excellence": {"analytical thinking", "research"},
	"performance":         {"stage presence", "expression"},
	"business":            {"commercial awareness", "initiative"},
}

// deriveActivities scans the case-folded activity description for category
// trigger words. A description matching nothing contributes no activities,
// which is not an error.
func deriveActivities(description string) (activities, skills []string) {
	if description == "" {
		return nil, nil
	}
	lower := strings.ToLower(description)
	seenSkill := make(map[string]bool)
	for _, trigger := range activityTriggers {
		for _, kw := range trigger.Keywords {
			if !strings.Contains(lower, kw) {
				continue
			}
			activities = append(activities, trigger.Category)
			for _, sk := range skillsByCategory[trigger.Category] {
				if !seenSkill[sk] {
					seenSkill[sk] = true
					skills = append(skills, sk)
				}
			}
			break
		}
	}
	return activities, skills
}

// completeness scores field presence 0–100. Weights favor the signals the
// matcher and composer actually consume.
func completeness(p StudentProfile) int {
	score := 0
	if len(p.Strengths) > 0 {
		score += 25
	}
	if p.Aspiration != "" {
		score += 20
	}
	if len(p.FavoriteSubjects) > 0 && p.FavoriteSubjects[0] != "" {
		score += 15
	}
	if len(p.Interests) > 0 {
		score += 15
	}
	if p.ExtraCurricular != "" {
		score += 15
	}
	if len(p.WorkPreference) > 0 {
		score += 10
	}
	return score
}

func clarifyingQuestions(p StudentProfile) []string {
	var qs []string
	if len(p.Strengths) == 0 {
		qs = append(qs, "Which school subjects have you scored best in recently?")
	}
	if p.Aspiration == "" {
		qs = append(qs, "What career or profession do you see yourself in 5–10 years from now?")
	}
	if len(p.FavoriteSubjects) == 0 || p.FavoriteSubjects[0] == "" {
		qs = append(qs, "What subjects do you enjoy learning the most, and why?")
	}
	if len(p.Interests) == 0 {
		qs = append(qs, "Do you have certificates or hobbies in areas like design, sports, music, or technology?")
	}
	if p.ExtraCurricular == "" {
		qs = append(qs, "Have you participated in any clubs, projects, or competitions?")
	}
	if len(p.WorkPreference) == 0 {
		qs = append(qs, "Do you prefer working with people, machines or code, creative tools, or numbers and data?")
	}
	return qs
}
