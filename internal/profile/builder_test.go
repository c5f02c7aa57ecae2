package profile

import (
	"reflect"
	"testing"
)

func fullAnswers() Answers {
	return Answers{
		Aspiration:       "Software engineer at a product company",
		WorkPreference:   []string{"Machines or Code"},
		FavoriteSubjects: "Math and computer science, I like solving puzzles",
		ExtraCurricular:  "Won a robotics hackathon and captain of the quiz team",
		DegreeLevel:      Bachelors,
	}
}

func TestBuild_StrengthsTopTwo(t *testing.T) {
	marks := []Mark{
		{"Math", 90},
		{"Physics", 85},
		{"Art", 60},
	}
	p := Build(marks, []string{"Technology"}, fullAnswers())

	want := []string{"Math", "Physics"}
	if !reflect.DeepEqual(p.Strengths, want) {
		t.Fatalf("strengths = %v, want %v", p.Strengths, want)
	}
}

func TestBuild_StableTieBreak(t *testing.T) {
	// Physics and Chemistry tie; marksheet order decides.
	marks := []Mark{
		{"Physics", 88},
		{"Chemistry", 88},
		{"Math", 88},
	}
	p := Build(marks, nil, fullAnswers())

	want := []string{"Physics", "Chemistry"}
	if !reflect.DeepEqual(p.Strengths, want) {
		t.Fatalf("strengths = %v, want %v", p.Strengths, want)
	}
}

func TestBuild_FewerThanTwoSubjects(t *testing.T) {
	cases := []struct {
		name  string
		marks []Mark
		want  int
	}{
		{"none", nil, 0},
		{"one", []Mark{{"Biology", 72}}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Build(tc.marks, nil, fullAnswers())
			if len(p.Strengths) != tc.want {
				t.Fatalf("len(strengths) = %d, want %d", len(p.Strengths), tc.want)
			}
		})
	}
}

func TestBuild_InputOrderUnchanged(t *testing.T) {
	marks := []Mark{{"Art", 60}, {"Math", 90}}
	Build(marks, nil, fullAnswers())
	if marks[0].Subject != "Art" {
		t.Fatal("Build must not reorder the caller's marks slice")
	}
}

func TestBuild_OutOfRangeScoresPassThrough(t *testing.T) {
	marks := []Mark{{"Math", 150}, {"Physics", 90}}
	p := Build(marks, nil, fullAnswers())
	if p.Strengths[0] != "Math" {
		t.Fatalf("expected out-of-range score to sort normally, got %v", p.Strengths)
	}
}

func TestBuild_DefaultDegreeLevel(t *testing.T) {
	ans := fullAnswers()
	ans.DegreeLevel = ""
	p := Build(nil, nil, ans)
	if p.DegreeLevel != Bachelors {
		t.Fatalf("degree level = %q, want %q", p.DegreeLevel, Bachelors)
	}
}

func TestBuild_DerivedActivities(t *testing.T) {
	p := Build(nil, nil, fullAnswers())

	gotTechnical := false
	for _, a := range p.Activities {
		if a == "technical projects" {
			gotTechnical = true
		}
	}
	if !gotTechnical {
		t.Fatalf("expected technical projects in activities, got %v", p.Activities)
	}
	if len(p.DerivedSkills) == 0 {
		t.Fatal("expected derived skills for a matched activity")
	}
}

func TestBuild_CompleteProfileNeedsNoClarification(t *testing.T) {
	marks := []Mark{{"Math", 90}, {"Physics", 85}}
	p := Build(marks, []string{"Technology"}, fullAnswers())

	if p.CompletenessScore != 100 {
		t.Fatalf("completeness = %d, want 100", p.CompletenessScore)
	}
	if p.NeedsClarification {
		t.Fatal("complete profile must not need clarification")
	}
}

func TestBuild_SparseProfileNeedsClarification(t *testing.T) {
	p := Build(nil, nil, Answers{FavoriteSubjects: "History"})

	if !p.NeedsClarification {
		t.Fatalf("expected clarification flag at completeness %d", p.CompletenessScore)
	}
	if len(p.ClarifyingQuestions) == 0 {
		t.Fatal("expected at least one clarifying question")
	}
	for _, q := range p.ClarifyingQuestions {
		if q == "What subjects do you enjoy learning the most, and why?" {
			t.Error("must not ask about a field that was answered")
		}
	}
}
