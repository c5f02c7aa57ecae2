// Package advisor drives the recommendation loop: analyze the conversation,
// compose a prompt, call the completion endpoint, append both turns. A
// completion failure degrades into an apology string; it never ends the
// session.
package advisor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/composer"
	"github.com/kalambet/advisor/internal/conversation"
	"github.com/kalambet/advisor/internal/match"
	"github.com/kalambet/advisor/internal/profile"
)

// apologyTemplate is the user-facing fallback when the completion endpoint
// fails for any reason.
const apologyTemplate = "I apologize, but I'm having trouble connecting to generate recommendations right now. Error: %v. Please try again in a moment."

// Completer issues one text-completion call. Implemented by proxy.Client.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Advisor holds the loaded catalog and the matching/analysis/composition
// components, and tracks live sessions.
type Advisor struct {
	catalog  []catalog.CourseRecord
	matcher  *match.Matcher
	analyzer *conversation.Analyzer
	composer *composer.Composer
	client   Completer

	mu       sync.RWMutex
	sessions map[string]*Session
}

// New wires an Advisor. The catalog must already be loaded; a missing catalog
// is fatal upstream, before an Advisor exists.
func New(cat []catalog.CourseRecord, m *match.Matcher, a *conversation.Analyzer, c *composer.Composer, client Completer) *Advisor {
	return &Advisor{
		catalog:  cat,
		matcher:  m,
		analyzer: a,
		composer: c,
		client:   client,
		sessions: make(map[string]*Session),
	}
}

// StartSession creates a session for the profile, computes its catalog view,
// and produces the opening response — an initial recommendation, or a
// clarification request when the profile is too sparse. The response is
// appended as the first assistant turn.
func (a *Advisor) StartSession(ctx context.Context, p profile.StudentProfile) (*Session, string) {
	ranked := a.matcher.Match(a.catalog, p)
	s := newSession(p, ranked)

	prompt := a.composer.Compose(p, ranked, nil, conversation.State{}, "")
	reply := a.complete(ctx, prompt)
	s.log.Append(conversation.RoleAssistant, reply)

	a.mu.Lock()
	a.sessions[s.ID] = s
	a.mu.Unlock()

	slog.Info("session started",
		"session_id", s.ID,
		"degree_level", p.DegreeLevel,
		"catalog_records", len(ranked),
		"needs_clarification", p.NeedsClarification,
	)
	return s, reply
}

// Session returns a live session by ID.
func (a *Advisor) Session(id string) (*Session, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[id]
	return s, ok
}

// Respond handles one user message: recompute conversation state from the
// transcript, compose the follow-up prompt, issue the single completion call,
// and append both turns. The per-session lock enforces the strict
// request/response cycle.
func (a *Advisor) Respond(ctx context.Context, s *Session, message string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.log.Turns()
	st := a.analyzer.Analyze(history, message)
	prompt := a.composer.Compose(s.Profile, s.Ranked, history, st, message)
	reply := a.complete(ctx, prompt)

	s.log.Append(conversation.RoleUser, message)
	s.log.Append(conversation.RoleAssistant, reply)

	slog.Debug("turn completed",
		"session_id", s.ID,
		"current_course", st.CurrentCourse,
		"specific_course", st.SpecificCourse,
		"wants_alternatives", st.WantsAlternatives,
	)
	return reply
}

func (a *Advisor) complete(ctx context.Context, prompt string) string {
	reply, err := a.client.Complete(ctx, prompt)
	if err != nil {
		slog.Warn("completion failed", "error", err)
		return fmt.Sprintf(apologyTemplate, err)
	}
	return reply
}
