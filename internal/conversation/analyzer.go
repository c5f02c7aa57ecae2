package conversation

import (
	"strings"
	"unicode/utf8"
)

const (
	// recentWindow bounds the history suffix scanned for course mentions.
	recentWindow = 6
	// excerptMinChars is the length above which an assistant turn counts as a
	// substantial recommendation.
	excerptMinChars = 100
	// excerptMaxChars caps the initial-recommendation excerpt.
	excerptMaxChars = 800
)

// initialPlaceholder is used when no substantial assistant turn exists yet.
const initialPlaceholder = "The courses initially recommended to you"

// State is the per-turn inference over the transcript. It is recomputed from
// the history on every user message and never cached.
type State struct {
	// CurrentCourse is the course most recently under discussion, empty when
	// no rule matched.
	CurrentCourse string
	// SpecificCourse is the course this turn is about: an explicit mention in
	// the latest message, or the current course when the message is a
	// follow-up question.
	SpecificCourse string
	// WantsAlternatives is true when the latest message asks for different
	// options.
	WantsAlternatives bool
	// InitialExcerpt is the first substantial assistant response, truncated.
	InitialExcerpt string
}

// Analyzer derives conversation state from a transcript. All methods are
// pure functions of their arguments; the analyzer carries only rule data.
type Analyzer struct {
	rules Rules
}

// NewAnalyzer creates an Analyzer over the given detection rules.
func NewAnalyzer(rules Rules) *Analyzer {
	return &Analyzer{rules: rules}
}

// Analyze computes the full State for the latest user message against the
// history recorded so far (the latest message itself is not yet in history).
func (a *Analyzer) Analyze(history []Turn, latest string) State {
	current := a.CurrentCourse(history)
	return State{
		CurrentCourse:     current,
		SpecificCourse:    a.SpecificCourse(latest, current),
		WantsAlternatives: a.WantsAlternatives(latest),
		InitialExcerpt:    a.InitialExcerpt(history),
	}
}

// CurrentCourse scans the most recent turns, newest first, against the
// ordered course rule list. The first rule matching any scanned message wins,
// so an explicitly mentioned newer topic always overrides an older one.
func (a *Analyzer) CurrentCourse(history []Turn) string {
	recent := history
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}

	for i := len(recent) - 1; i >= 0; i-- {
		content := strings.ToLower(recent[i].Content)
		for _, rule := range a.rules.Courses {
			if matchAlternatives(rule.Mention, content) {
				return rule.Course
			}
		}
	}
	return ""
}

// SpecificCourse resolves which course this turn is about. An explicit
// mention in the message itself always takes priority; otherwise a follow-up
// style question continues the current course. Returns "" when neither
// applies.
func (a *Analyzer) SpecificCourse(latest, currentCourse string) string {
	if latest == "" {
		return ""
	}
	msg := strings.ToLower(latest)

	for _, rule := range a.rules.Courses {
		alts := rule.Explicit
		if len(alts) == 0 {
			alts = rule.Mention
		}
		if matchAlternatives(alts, msg) {
			return rule.Course
		}
	}

	if currentCourse != "" && containsAny(msg, a.rules.Followups) {
		return currentCourse
	}
	return ""
}

// WantsAlternatives reports whether the latest message asks for different or
// additional course options.
func (a *Analyzer) WantsAlternatives(latest string) bool {
	if latest == "" {
		return false
	}
	return containsAny(strings.ToLower(latest), a.rules.Alternatives)
}

// InitialExcerpt returns the first assistant turn long enough to have carried
// recommendations, truncated with an ellipsis marker, or a placeholder when
// none exists yet.
func (a *Analyzer) InitialExcerpt(history []Turn) string {
	for _, turn := range history {
		if turn.Role != RoleAssistant || len(turn.Content) <= excerptMinChars {
			continue
		}
		return "Here's what I initially recommended to you:\n\n" + truncate(turn.Content, excerptMaxChars) + "..."
	}
	return initialPlaceholder
}

func matchAlternatives(alternatives [][]string, content string) bool {
	for _, required := range alternatives {
		if len(required) == 0 {
			continue
		}
		all := true
		for _, sub := range required {
			if !strings.Contains(content, strings.ToLower(sub)) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

func containsAny(content string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(content, phrase) {
			return true
		}
	}
	return false
}

// truncate cuts s at max bytes without splitting a multi-byte rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	end := max
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}
