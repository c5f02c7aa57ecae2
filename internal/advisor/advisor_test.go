package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/composer"
	"github.com/kalambet/advisor/internal/conversation"
	"github.com/kalambet/advisor/internal/match"
	"github.com/kalambet/advisor/internal/profile"
)

// stubCompleter records prompts and returns canned replies or an error.
type stubCompleter struct {
	reply string
	err   error
	calls int
	last  string
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.last = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func testAdvisor(client Completer) *Advisor {
	cat := []catalog.CourseRecord{
		{Course: "B.Tech in Computer Science and Engineering", Degree: "Engineering", SourceURL: "u1"},
		{Course: "Bachelor of Commerce Honours", Degree: "Commerce", SourceURL: "u2"},
	}
	return New(
		cat,
		match.New(match.DefaultRules()),
		conversation.NewAnalyzer(conversation.DefaultRules()),
		composer.New(),
		client,
	)
}

func completeProfile() profile.StudentProfile {
	return profile.Build(
		[]profile.Mark{{Subject: "Math", Score: 90}, {Subject: "Physics", Score: 85}},
		[]string{"Technology"},
		profile.Answers{
			Aspiration:       "Software engineer",
			WorkPreference:   []string{"Machines or Code"},
			FavoriteSubjects: "Math",
			ExtraCurricular:  "robotics hackathon",
			DegreeLevel:      profile.Bachelors,
		},
	)
}

func TestStartSession(t *testing.T) {
	stub := &stubCompleter{reply: "welcome, here are some courses"}
	adv := testAdvisor(stub)

	s, reply := adv.StartSession(context.Background(), completeProfile())
	if reply != "welcome, here are some courses" {
		t.Fatalf("reply = %q", reply)
	}
	if stub.calls != 1 {
		t.Fatalf("expected one completion call, got %d", stub.calls)
	}
	if !strings.Contains(stub.last, "B.Tech in Computer Science and Engineering") {
		t.Error("initial prompt must embed the filtered catalog")
	}

	history := s.History()
	if len(history) != 1 || history[0].Role != conversation.RoleAssistant {
		t.Fatalf("expected a single assistant turn, got %+v", history)
	}

	got, ok := adv.Session(s.ID)
	if !ok || got != s {
		t.Fatal("session must be retrievable by ID")
	}
}

func TestRespond_AppendsTurns(t *testing.T) {
	stub := &stubCompleter{reply: "sure, more detail"}
	adv := testAdvisor(stub)
	s, _ := adv.StartSession(context.Background(), completeProfile())

	reply := adv.Respond(context.Background(), s, "tell me more about the first one")
	if reply != "sure, more detail" {
		t.Fatalf("reply = %q", reply)
	}
	if stub.calls != 2 {
		t.Fatalf("one user message must produce exactly one call; total %d", stub.calls)
	}

	history := s.History()
	if len(history) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(history))
	}
	if history[1].Role != conversation.RoleUser || history[1].Content != "tell me more about the first one" {
		t.Errorf("user turn not appended verbatim: %+v", history[1])
	}
	if history[2].Role != conversation.RoleAssistant {
		t.Errorf("assistant turn missing: %+v", history[2])
	}
}

func TestRespond_CompletionFailureBecomesApology(t *testing.T) {
	stub := &stubCompleter{err: errors.New("connection refused")}
	adv := testAdvisor(stub)
	s, opening := adv.StartSession(context.Background(), completeProfile())

	if !strings.Contains(opening, "I apologize") || !strings.Contains(opening, "connection refused") {
		t.Fatalf("opening apology missing error detail: %q", opening)
	}

	reply := adv.Respond(context.Background(), s, "hello?")
	if !strings.Contains(reply, "I apologize") {
		t.Fatalf("expected apology, got %q", reply)
	}

	// The session survives the failure.
	if _, ok := adv.Session(s.ID); !ok {
		t.Fatal("session must not be terminated by a completion failure")
	}
	if len(s.History()) != 3 {
		t.Fatalf("failed turns still append to history, got %d turns", len(s.History()))
	}
}

func TestRespond_AlternativesPrompt(t *testing.T) {
	stub := &stubCompleter{reply: strings.Repeat("I recommend the Bachelor of Commerce Honours program. ", 5)}
	adv := testAdvisor(stub)
	s, _ := adv.StartSession(context.Background(), completeProfile())

	adv.Respond(context.Background(), s, "what other options do you have?")
	if !strings.Contains(stub.last, "different/alternative course options") {
		t.Error("alternatives intent must select the alternatives template")
	}
}

func TestSession_UnknownID(t *testing.T) {
	adv := testAdvisor(&stubCompleter{reply: "x"})
	if _, ok := adv.Session("nope"); ok {
		t.Fatal("unknown session ID must not resolve")
	}
}
