package router

import (
	"context"
	"fmt"
	"strings"

	"github.com/studybuddy/server/internal/bot/model"
	logx "github.com/studybuddy/server/pkg/logger"
)

const classifyPromptTemplate = `You are an intent classifier for a study-companion chatbot.
Classify the user message into exactly one category:

- academic: marks, scores, grades, averages, subjects, report tables
- positive: the user expresses happiness, excitement, pride
- negative: the user expresses sadness, stress, anxiety, frustration
- safety: the user expresses first-person self-harm or suicidal intent
- generic: anything else that is a clear, answerable message
- unclear: the message could be about self-harm but it is not clear the
  user means themselves

Rules:
- Self-harm mentioned about a movie, a book or a third party is NOT safety.
- Explicit first-person intent ("I want to hurt myself") IS safety.
- If you cannot tell whether a sensitive message is first-person, answer unclear.

Answer with the single category word in lowercase and nothing else.

User message: %s`

// categoryRoutes maps classifier output to routes. Unknown output falls
// back to the generic route rather than guessing at anything sensitive.
var categoryRoutes = map[string]Route{
	"academic": RouteAcademic,
	"positive": RoutePositive,
	"negative": RouteNegative,
	"safety":   RouteSafety,
	"generic":  RouteFallback,
	"unclear":  RouteClarify,
}

// LLMPolicy issues one classification call per message to the external
// text generator.
type LLMPolicy struct {
	gen model.TextGenerator
}

func NewLLMPolicy(gen model.TextGenerator) *LLMPolicy {
	return &LLMPolicy{gen: gen}
}

func (p *LLMPolicy) Classify(ctx context.Context, message string) (Route, error) {
	out, err := p.gen.Generate(ctx, fmt.Sprintf(classifyPromptTemplate, message))
	if err != nil {
		return RouteFallback, fmt.Errorf("classify message: %w", err)
	}

	category := normalizeCategory(out)
	route, ok := categoryRoutes[category]
	if !ok {
		logx.Warn().Str("category", category).Msg("classifier returned unknown category, using fallback route")
		return RouteFallback, nil
	}

	logx.Debug().Str("category", category).Str("route", route.String()).Msg("message classified")
	return route, nil
}

// normalizeCategory extracts the category word from the completion. Models
// occasionally wrap the answer in punctuation or extra prose; the first
// known word wins.
func normalizeCategory(out string) string {
	out = strings.ToLower(strings.TrimSpace(out))
	trimmed := strings.Trim(out, ".!\"'` ")
	if _, ok := categoryRoutes[trimmed]; ok {
		return trimmed
	}
	for _, field := range strings.Fields(trimmed) {
		field = strings.Trim(field, ".!\"'`,:")
		if _, ok := categoryRoutes[field]; ok {
			return field
		}
	}
	return trimmed
}
