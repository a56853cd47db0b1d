package router

import (
	"context"
	"strings"

	"github.com/studybuddy/server/internal/bot/grades"
)

var academicKeywords = []string{
	"grade", "grades", "score", "scores", "marks", "mark",
	"average", "result", "report", "table",
}

// renderKeywords is the narrower set that still routes to the grade engine
// under digit-only triggering, where plain keywords may only re-render.
var renderKeywords = []string{
	"grade", "grades", "average", "marks", "mark",
	"result", "report", "table", "summary",
}

var positiveKeywords = []string{
	"happy", "excited", "great", "awesome", "glad", "delighted",
}

var negativeKeywords = []string{
	"sad", "upset", "depressed", "stressed", "anxious", "worried",
	"lonely", "tired", "angry", "frustrated", "overwhelmed",
}

type rule struct {
	name  string
	match func(text, lower string) bool
	route Route
}

// KeywordPolicy routes by an ordered rule table; the first matching rule
// wins and the final rule always matches.
type KeywordPolicy struct {
	rules []rule
}

func NewKeywordPolicy(mode AcademicTriggerMode) *KeywordPolicy {
	academicMatch := func(text, lower string) bool {
		return grades.HasDigit(text) || containsAny(lower, academicKeywords)
	}
	if mode == TriggerDigitOnly {
		academicMatch = func(text, lower string) bool {
			return grades.HasDigit(text) || containsAny(lower, renderKeywords)
		}
	}

	return &KeywordPolicy{rules: []rule{
		{name: "academic", match: academicMatch, route: RouteAcademic},
		{name: "positive", match: lexicon(positiveKeywords), route: RoutePositive},
		{name: "negative", match: lexicon(negativeKeywords), route: RouteNegative},
		{name: "fallback", match: func(string, string) bool { return true }, route: RouteFallback},
	}}
}

func (p *KeywordPolicy) Classify(_ context.Context, message string) (Route, error) {
	lower := strings.ToLower(message)
	for _, r := range p.rules {
		if r.match(message, lower) {
			return r.route, nil
		}
	}
	return RouteFallback, nil
}

func lexicon(keywords []string) func(text, lower string) bool {
	return func(_, lower string) bool {
		return containsAny(lower, keywords)
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
