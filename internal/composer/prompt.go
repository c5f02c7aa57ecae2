// Package composer assembles the advisor's completion prompts from the
// student profile, the filtered course catalog, and the conversation state.
// Template selection follows a strict priority: clarification, then initial
// recommendation, then the follow-up variants.
package composer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kalambet/advisor/internal/catalog"
	"github.com/kalambet/advisor/internal/conversation"
	"github.com/kalambet/advisor/internal/profile"
)

const advisorRole = "You are an expert academic advisor helping students choose the right university course."

// closingInvitation is the fixed line every initial recommendation ends with.
const closingInvitation = `End by asking: "Would you like me to explain more about any of these courses, or would you prefer to explore other options?"`

// Composer renders completion prompts. It is stateless; every call receives
// the profile, the ranked catalog view, and the derived conversation state.
type Composer struct{}

// New creates a Composer.
func New() *Composer {
	return &Composer{}
}

// Compose selects and fills the template for this turn.
//
// Priority order:
//  1. The profile needs clarification → gather information, defer courses.
//  2. No prior conversation → initial recommendation over the full catalog.
//  3. Follow-up turn → alternatives, single-course focus, or continuity,
//     depending on conversation state.
func (c *Composer) Compose(
	p profile.StudentProfile,
	ranked []catalog.CourseRecord,
	history []conversation.Turn,
	st conversation.State,
	latest string,
) string {
	if p.NeedsClarification && len(p.ClarifyingQuestions) > 0 {
		return c.clarification(p)
	}
	if len(history) == 0 {
		return c.initial(p, ranked)
	}

	switch {
	case st.WantsAlternatives:
		return c.alternatives(p, ranked, latest)
	case st.SpecificCourse != "":
		return c.focus(p, st.SpecificCourse, latest)
	default:
		return c.continuity(p, st.InitialExcerpt, latest)
	}
}

func (c *Composer) clarification(p profile.StudentProfile) string {
	questions := p.ClarifyingQuestions
	if len(questions) > 2 {
		questions = questions[:2]
	}
	var qs strings.Builder
	for _, q := range questions {
		fmt.Fprintf(&qs, "- %s\n", q)
	}

	return fmt.Sprintf(`%s

Here is the student's current profile:
%s

IMPORTANT: The student's profile is only %d%% complete. Before giving course recommendations, you need to gather more information.

Your task:
1. Acknowledge what information you have about the student
2. Explain that you'd like to understand them better to give more personalized recommendations
3. Ask ONE of these clarifying questions (choose the most important one):
%s
4. Be encouraging and explain that this will help you suggest the best-fit courses

Keep your response friendly and conversational. Don't recommend specific courses yet - focus on gathering more information first.`,
		advisorRole, profileJSON(p), p.CompletenessScore, qs.String())
}

func (c *Composer) initial(p profile.StudentProfile, ranked []catalog.CourseRecord) string {
	level := p.DegreeLevel

	return fmt.Sprintf(`%s

Here is the student's profile:
%s

Here are the available %s courses:
%s

Your task:
1. Analyze the student's strengths (top academic subjects), interests, AND extracurricular activities
2. Give MEDIUM WEIGHT to their activities and derived skills when making recommendations
3. Suggest 3-4 best-fit %s courses that align with their complete profile
4. For each recommended course, explain WHY it's a good fit using second person (you/your)
5. Include the course URL for each recommendation
6. Mention how their activities and derived skills make them suitable for each course

IMPORTANT:
- Consider activities as EQUALLY important as academic interests when recommending courses
- If they have leadership activities, mention management/business potential
- If they have technical projects, highlight engineering/technology fit
- If they have creative activities, emphasize design/arts alignment
- If they have sports activities, consider sports science/physical education
- Only recommend %s courses - do not mix bachelor's and master's programs
- Always address the student directly using "you" and "your" throughout your response
- Keep the heading text size normal (not overly large)

Format your response in a friendly, supportive tone. Structure it with clear headings and include the URLs so students can learn more about each course.

%s`,
		advisorRole, profileJSON(p), level, renderCatalog(ranked), level, level, closingInvitation)
}

func (c *Composer) alternatives(p profile.StudentProfile, ranked []catalog.CourseRecord, latest string) string {
	level := p.DegreeLevel

	return fmt.Sprintf(`%s

Student Profile:
%s

The student is asking for different/alternative course options from what was initially suggested.

Available %s Courses:
%s

Student's current question: %s

Instructions:
- The student wants to explore different options, so you can suggest new courses
- Only recommend %s courses
- Provide helpful, specific advice about these alternative courses
- Include course URLs when recommending specific programs
- Be supportive and encouraging
- IMPORTANT: Always address the student directly using "you" and "your"
- Format recommendations clearly with explanations

Respond naturally as their personal academic advisor offering alternative options.`,
		advisorRole, profileJSON(p), level, renderCatalog(ranked), latest, level)
}

func (c *Composer) focus(p profile.StudentProfile, course, latest string) string {
	return fmt.Sprintf(`%s

Student Profile:
%s

IMPORTANT: The student is currently asking about **%s** specifically.

Student's current question: %s

Instructions:
- Answer ONLY about %s - do NOT mention other courses
- If they ask about job opportunities, career prospects, subjects, etc. - relate everything to %s
- Provide detailed, helpful information specifically about %s
- Do NOT suggest other courses or alternatives unless they specifically ask
- Be informative and enthusiastic about %s
- IMPORTANT: Always address the student directly using "you" and "your"
- Keep your response focused entirely on %s

Respond naturally as their personal academic advisor, focusing exclusively on %s.`,
		advisorRole, profileJSON(p), course, latest, course, course, course, course, course, course)
}

func (c *Composer) continuity(p profile.StudentProfile, initialExcerpt, latest string) string {
	return fmt.Sprintf(`%s

Student Profile:
%s

IMPORTANT CONTEXT: You have already suggested specific courses to this student in your initial recommendation. Here are the courses you initially recommended:
%s

Student's current question: %s

Instructions:
- FOCUS ONLY on the courses you initially recommended - do NOT suggest new courses
- Answer the student's question in the context of those initially recommended courses
- If they ask about career prospects, job opportunities, curriculum, etc. - relate it to the initially suggested courses
- Do NOT offer alternative courses or new suggestions unless they specifically ask for different options
- Be helpful and informative about the courses you already suggested
- IMPORTANT: Always address the student directly using "you" and "your"
- Keep your response focused and conversational

Respond naturally as their personal academic advisor, staying focused on the initially suggested courses.`,
		advisorRole, profileJSON(p), initialExcerpt, latest)
}

// renderCatalog renders ranked records as a markdown list with source URLs.
// A record is skipped if its (course, degree) pair was already emitted or if
// its course name has fewer than 3 words.
func renderCatalog(records []catalog.CourseRecord) string {
	type entry struct {
		course, degree string
	}
	seen := make(map[entry]bool)

	var sb strings.Builder
	for _, rec := range records {
		if !rec.Meaningful() {
			continue
		}
		key := entry{rec.Course, rec.Degree}
		if seen[key] {
			continue
		}
		seen[key] = true

		fmt.Fprintf(&sb, "- **%s** from %s", rec.Course, rec.Degree)
		if len(rec.Subjects) > 0 {
			fmt.Fprintf(&sb, " (Subjects: %s)", strings.Join(rec.Subjects, ", "))
		}
		fmt.Fprintf(&sb, "\n  URL: %s\n\n", rec.SourceURL)
	}
	return sb.String()
}

func profileJSON(p profile.StudentProfile) string {
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		// StudentProfile contains only marshallable fields; this is unreachable
		// short of memory corruption.
		return "{}"
	}
	return string(b)
}
