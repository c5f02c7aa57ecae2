package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kalambet/advisor/internal/profile"
)

// markLine matches marksheet lines of the form "Subject Name: NN%".
var markLine = regexp.MustCompile(`^(\w+(?: \w+)*):\s*(\d+)%`)

// ParseMarks scans extracted marksheet text line by line. Non-conforming
// lines are silently skipped; a document with no matches yields an empty
// slice, not an error. Document line order is preserved so strength ties
// resolve the way the marksheet reads. A repeated subject keeps its first
// position and takes the later score.
func ParseMarks(text string) []profile.Mark {
	var marks []profile.Mark
	position := make(map[string]int)

	for _, line := range strings.Split(text, "\n") {
		m := markLine.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		score, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		subject := strings.TrimSpace(m[1])
		if i, ok := position[subject]; ok {
			marks[i].Score = score
			continue
		}
		position[subject] = len(marks)
		marks = append(marks, profile.Mark{Subject: subject, Score: score})
	}
	return marks
}
