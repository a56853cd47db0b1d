// Package grades is the deterministic grading engine: it extracts
// subject/score pairs from free text, maps scores to letter grades and
// renders the per-session mark table.
package grades

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/studybuddy/server/internal/bot/model"
)

// ScaleLegend is appended to every rendered table and answers direct
// questions about the grading criteria.
const ScaleLegend = "(Grade scale: S≥90, A≥80, B≥70, C≥60, D≥50, E≥40, F<40)"

const (
	parseFailureReply = "I couldn't find any marks. Try like: 'Maths - 91, Physics - 80'."
	noMarksReply      = "I don't have any marks saved yet. Tell me your scores like: 'Maths - 91, Physics - 80'."
	marksHintReply    = "Tell me your marks like: 'Maths - 91, Physics - 80' and I'll calculate grades for you."
)

var (
	subjectScorePattern = regexp.MustCompile(`([A-Za-z ]+)\s*[-=:]\s*(\d{1,3})`)
	scoreInPattern      = regexp.MustCompile(`(?i)(\d{1,3})\s+in\s+([A-Za-z ]+)`)
	digitPattern        = regexp.MustCompile(`\d`)
)

var scaleKeywords = []string{"scale", "grading", "criteria", "grade range"}

var reportKeywords = []string{
	"grade", "grades", "average", "marks", "mark",
	"result", "report", "table", "summary",
}

// LetterFor maps a score to its letter grade. Total over all integers;
// callers clamp before storage but the step function itself does not.
func LetterFor(score int) string {
	switch {
	case score >= 90:
		return "S"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	case score >= 40:
		return "E"
	default:
		return "F"
	}
}

// Pair is one extracted subject/score match before clamping.
type Pair struct {
	Subject string
	Score   int
}

// ParsePairs extracts (subject, score) pairs using three strategies in
// strict precedence: "Subject - 90" separators, then "90 in Subject", then
// an adjacent-token scan. Only the first strategy that matches contributes,
// so "Maths - 90 in Term" cannot be counted twice.
func ParsePairs(text string) []Pair {
	var pairs []Pair

	for _, m := range subjectScorePattern.FindAllStringSubmatch(text, -1) {
		score, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		pairs = append(pairs, Pair{Subject: TitleCase(m[1]), Score: score})
	}
	if len(pairs) > 0 {
		return pairs
	}

	for _, m := range scoreInPattern.FindAllStringSubmatch(text, -1) {
		score, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pairs = append(pairs, Pair{Subject: TitleCase(m[2]), Score: score})
	}
	if len(pairs) > 0 {
		return pairs
	}

	tokens := strings.Fields(strings.ReplaceAll(text, ",", " "))
	for i := 0; i+1 < len(tokens); i++ {
		if !allDigits(tokens[i+1]) {
			continue
		}
		score, err := strconv.Atoi(tokens[i+1])
		if err != nil {
			continue
		}
		pairs = append(pairs, Pair{Subject: TitleCase(tokens[i]), Score: score})
	}
	return pairs
}

// Upsert parses marks out of the text, stores them (clamped, last write
// wins) and renders the full updated table. Nothing is mutated when no
// pairs are found.
func Upsert(text string, session *model.Session) string {
	pairs := ParsePairs(text)
	if len(pairs) == 0 {
		return parseFailureReply
	}

	for _, p := range pairs {
		session.SetMark(p.Subject, p.Score)
	}

	return renderTable(session, "Here are your updated grades:\n", true)
}

// RenderTable renders the current marks without mutation.
func RenderTable(session *model.Session) string {
	if len(session.Marks) == 0 {
		return noMarksReply
	}
	return renderTable(session, "Here is your grade summary:\n", false)
}

// Handle is the academic entry point: scale questions get the legend,
// anything with a digit updates marks, report keywords re-render, and the
// rest gets a formatting hint.
func Handle(text string, session *model.Session) string {
	lower := strings.ToLower(text)

	if containsAny(lower, scaleKeywords) {
		return ScaleLegend
	}
	if HasDigit(text) {
		return Upsert(text, session)
	}
	if containsAny(lower, reportKeywords) {
		return RenderTable(session)
	}
	return marksHintReply
}

// HasDigit reports whether the text contains any decimal digit.
func HasDigit(text string) bool {
	return digitPattern.MatchString(text)
}

func renderTable(session *model.Session, header string, encourage bool) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n| Subject | Marks | Grade |")
	b.WriteString("\n|--------|-------|-------|")

	total := 0
	for _, m := range session.Marks {
		total += m.Score
		fmt.Fprintf(&b, "\n| %s | %d | %s |", m.Subject, m.Score, LetterFor(m.Score))
	}

	avg := float64(total) / float64(len(session.Marks))
	overall := LetterFor(int(math.Round(avg)))

	fmt.Fprintf(&b, "\n\nOverall: **%.2f%% → Grade %s**.", avg, overall)

	if encourage {
		b.WriteString("\n")
		b.WriteString(encouragementFor(avg))
	}

	b.WriteString("\n\n")
	b.WriteString(ScaleLegend)
	return b.String()
}

func encouragementFor(avg float64) string {
	switch {
	case avg >= 80:
		return "Great work. That's the right direction—keep pushing yourself."
	case avg >= 60:
		return "Good progress. With steady effort, you can push this even higher."
	case avg >= 40:
		return "You're passing. Let's focus on lifting the weaker subjects next."
	default:
		return "It's okay to have low scores sometimes. We can build a better plan from here."
	}
}

// TitleCase trims and title-cases a subject or name, so "computer science"
// and "COMPUTER SCIENCE" both normalise to "Computer Science".
func TitleCase(s string) string {
	words := strings.Fields(strings.TrimSpace(s))
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
