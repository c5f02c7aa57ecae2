// Package conversation models the session transcript and derives per-turn
// state from it: which course is under discussion, whether the student wants
// alternatives, and what was initially recommended.
package conversation

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a session transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Log is an append-only transcript. Turns are never mutated or deleted;
// derived state is always recomputed from a snapshot of the log.
type Log struct {
	turns []Turn
}

// Append adds a turn to the end of the transcript.
func (l *Log) Append(role, content string) {
	l.turns = append(l.turns, Turn{Role: role, Content: content})
}

// Turns returns a copy of the transcript.
func (l *Log) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Len returns the number of turns.
func (l *Log) Len() int {
	return len(l.turns)
}
