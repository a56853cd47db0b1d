// Package bot implements the chat engine: per-message routing across the
// safety, farewell, name-binding, academic, affect and fallback branches.
package bot

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/studybuddy/server/internal/bot/grades"
	"github.com/studybuddy/server/internal/bot/history"
	"github.com/studybuddy/server/internal/bot/model"
	"github.com/studybuddy/server/internal/bot/respond"
	"github.com/studybuddy/server/internal/bot/router"
	logx "github.com/studybuddy/server/pkg/logger"
)

const (
	emptyMessageReply = "Please type something."
	recoveryReply     = "I had trouble understanding that. Try rephrasing or ask something else."
)

// suicideKeywords is the hard life-safety trigger set; a match routes to
// the safety reply before any other branch, including name binding.
var suicideKeywords = []string{
	"suicide",
	"kill myself",
	"want to die",
	"end my life",
	"hurt myself",
	"no point living",
	"cut myself",
}

var exitKeywords = []string{"bye", "goodbye", "see you", "take care"}

var namePattern = regexp.MustCompile(`(?i)(?:my name is|i am|i'm|this is)\s+([A-Za-z]+)`)

// FallbackResponder handles messages no other branch claimed.
type FallbackResponder interface {
	Respond(ctx context.Context, session *model.Session, transcript, message string) string
}

type Config struct {
	Repo     model.SessionRepository
	History  *history.Adapter
	Mentor   *respond.Mentor
	Policy   router.Policy
	Fallback FallbackResponder
}

type Engine struct {
	repo     model.SessionRepository
	hist     *history.Adapter
	mentor   *respond.Mentor
	policy   router.Policy
	fallback FallbackResponder
}

func New(cfg Config) (*Engine, error) {
	if cfg.Repo == nil {
		return nil, fmt.Errorf("session repository is nil")
	}
	if cfg.History == nil {
		return nil, fmt.Errorf("history adapter is nil")
	}
	if cfg.Mentor == nil {
		return nil, fmt.Errorf("mentor is nil")
	}
	if cfg.Policy == nil {
		return nil, fmt.Errorf("routing policy is nil")
	}
	if cfg.Fallback == nil {
		return nil, fmt.Errorf("fallback responder is nil")
	}
	return &Engine{
		repo:     cfg.Repo,
		hist:     cfg.History,
		mentor:   cfg.Mentor,
		policy:   cfg.Policy,
		fallback: cfg.Fallback,
	}, nil
}

// Chat processes one inbound message and always returns a textual reply;
// every failure degrades to a canned response.
func (e *Engine) Chat(ctx context.Context, message, sessionID string) string {
	text := strings.TrimSpace(message)
	if text == "" {
		return emptyMessageReply
	}

	session, err := e.repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session")
		return recoveryReply
	}

	lower := strings.ToLower(text)

	// Safety always overrides everything, even the name phase.
	if containsAny(lower, suicideKeywords) {
		reply := respond.SafetyReply()
		e.record(ctx, session, text, reply)
		return reply
	}

	// Farewells are deterministic and deliberately not recorded.
	if containsAny(lower, exitKeywords) {
		name := session.Name
		if name == "" {
			name = "Friend"
		}
		return fmt.Sprintf("Bye %s. Keep going—you're capable of more than you think.", name)
	}

	// The very first turn of a session binds the name, whatever it says.
	if session.Name == "" {
		return e.bindName(ctx, session, text)
	}

	route, err := e.policy.Classify(ctx, text)
	if err != nil {
		logx.Warn().Err(err).Str("session_id", session.ID).Msg("routing policy failed, using fallback route")
		route = router.RouteFallback
	}
	logx.Debug().Str("session_id", session.ID).Str("route", route.String()).Msg("message routed")

	transcript := e.hist.Transcript(session)

	var reply string
	switch route {
	case router.RouteAcademic:
		reply = grades.Handle(text, session)
	case router.RoutePositive:
		reply = e.generated(e.mentor.Positive(ctx, transcript, text))
	case router.RouteNegative:
		reply = e.generated(e.mentor.Negative(ctx, transcript, text))
	case router.RouteSafety:
		reply = respond.SafetyReply()
	case router.RouteClarify:
		reply = respond.ClarifyReply()
	default:
		reply = e.fallback.Respond(ctx, session, transcript, text)
	}

	e.record(ctx, session, text, reply)
	return reply
}

// SetName is the explicit name override path, independent of the router.
func (e *Engine) SetName(ctx context.Context, raw, sessionID string) string {
	session, err := e.repo.GetOrCreate(ctx, sessionID)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to load session")
		return recoveryReply
	}
	return e.bindName(ctx, session, raw)
}

func (e *Engine) bindName(ctx context.Context, session *model.Session, raw string) string {
	name := extractName(raw)
	session.Name = name

	e.record(ctx, session, "My name is "+name, "Stored name: "+name+".")
	return fmt.Sprintf("Nice to meet you, %s. What would you like to work on today?", name)
}

func (e *Engine) generated(reply string, err error) string {
	if err != nil {
		logx.Error().Err(err).Msg("generation service failed")
		return recoveryReply
	}
	return reply
}

// record appends the exchange to history and persists the session. Storage
// failures are logged; the reply is already committed to the user.
func (e *Engine) record(ctx context.Context, session *model.Session, userText, reply string) {
	e.hist.AppendTurn(session, userText, reply)
	if err := e.repo.Save(ctx, session); err != nil {
		logx.Error().Err(err).Str("session_id", session.ID).Msg("failed to persist session")
	}
}

// extractName pulls a name from introduction phrases, falling back to the
// last token, then to "Friend".
func extractName(text string) string {
	if m := namePattern.FindStringSubmatch(text); m != nil {
		return grades.TitleCase(m[1])
	}
	tokens := strings.Fields(strings.TrimSpace(text))
	if len(tokens) == 0 {
		return "Friend"
	}
	return grades.TitleCase(tokens[len(tokens)-1])
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
