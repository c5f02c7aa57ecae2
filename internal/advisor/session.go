package advisor

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/conversation"
	"github.com/kalambet/advisor/internal/profile"
)

// Session owns one student's advisory conversation: an immutable profile, the
// degree-filtered ranked catalog view computed at session start, and the
// append-only transcript. Sessions live in memory only and die with the
// process.
type Session struct {
	ID      string
	Profile profile.StudentProfile
	Ranked  []catalog.CourseRecord

	// mu serializes turns: one user message produces exactly one completion
	// call, synchronously awaited, before the next message is accepted.
	mu  sync.Mutex
	log conversation.Log
}

func newSession(p profile.StudentProfile, ranked []catalog.CourseRecord) *Session {
	return &Session{
		ID:      uuid.New().String(),
		Profile: p,
		Ranked:  ranked,
	}
}

// History returns a copy of the transcript.
func (s *Session) History() []conversation.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.Turns()
}
