// Package agent is the fallback reasoning loop: a tool-calling chat model
// that can invoke the mentor capabilities when routing was inconclusive.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/studybuddy/server/internal/bot/grades"
	"github.com/studybuddy/server/internal/bot/model"
	"github.com/studybuddy/server/internal/bot/respond"
	logx "github.com/studybuddy/server/pkg/logger"
)

// RecoveryReply is returned whenever the loop cannot produce a usable
// answer; internal failures never propagate to the user.
const RecoveryReply = "I had trouble understanding that. Try rephrasing or ask something else."

const DefaultMaxToolCalls = 6

const systemPrompt = `You are Study Buddy, a friendly study mentor for students.
You can answer general questions directly. When the message clearly fits one
of your tools, call it with the user's message and base your reply on the
result. Keep replies short, warm, and focused on the user.`

// ChatModel is the tool-bound chat model contract the loop drives.
type ChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error)
}

type Agent struct {
	model    ChatModel
	mentor   *respond.Mentor
	maxCalls int
}

func New(cm ChatModel, mentor *respond.Mentor, maxCalls int) *Agent {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxToolCalls
	}
	return &Agent{model: cm, mentor: mentor, maxCalls: maxCalls}
}

// Respond runs the bounded tool loop for a message the router could not
// classify and synthesizes a final reply. Every failure path degrades to
// RecoveryReply.
func (a *Agent) Respond(ctx context.Context, session *model.Session, transcript, message string) string {
	msgs := []*schema.Message{
		schema.SystemMessage(systemPrompt),
		schema.UserMessage(userPrompt(transcript, message)),
	}

	calls := 0
	idSeq := 0
	for {
		out, err := a.model.Generate(ctx, msgs)
		if err != nil {
			logx.Error().Err(err).Str("session_id", session.ID).Msg("fallback agent generation failed")
			return RecoveryReply
		}
		if out == nil {
			return RecoveryReply
		}

		if len(out.ToolCalls) == 0 {
			reply := strings.TrimSpace(out.Content)
			if reply == "" {
				return RecoveryReply
			}
			return reply
		}

		// Some providers omit tool call ids; synthesize them so tool
		// results can still be correlated.
		for i := range out.ToolCalls {
			if strings.TrimSpace(out.ToolCalls[i].ID) == "" {
				idSeq++
				out.ToolCalls[i].ID = fmt.Sprintf("call_%d", idSeq)
			}
		}
		msgs = append(msgs, out)

		for _, tc := range out.ToolCalls {
			calls++
			if calls > a.maxCalls {
				logx.Warn().
					Int("tool_call_count", calls).
					Int("max_tool_calls", a.maxCalls).
					Str("session_id", session.ID).
					Msg("tool call limit exceeded, wrapping up")
				return a.wrapUp(ctx, session, msgs)
			}
			result := a.invoke(ctx, session, transcript, tc)
			msgs = append(msgs, schema.ToolMessage(result, tc.ID))
		}
	}
}

// invoke dispatches one tool call through the closed capability set.
func (a *Agent) invoke(ctx context.Context, session *model.Session, transcript string, tc schema.ToolCall) string {
	capability, ok := ParseCapability(tc.Function.Name)
	if !ok {
		logx.Warn().
			Str("tool_name", tc.Function.Name).
			Str("arguments", tc.Function.Arguments).
			Msg("unknown or invalid tool call, returning fallback result")
		return fmt.Sprintf("{\"error\":\"unknown_tool\",\"name\":%q,\"note\":\"ignored\"}", tc.Function.Name)
	}

	message := messageArgument(tc.Function.Arguments)

	switch capability {
	case CapabilityPositive:
		reply, err := a.mentor.Positive(ctx, transcript, message)
		if err != nil {
			logx.Error().Err(err).Msg("positive capability failed")
			return RecoveryReply
		}
		return reply
	case CapabilityNegative:
		reply, err := a.mentor.Negative(ctx, transcript, message)
		if err != nil {
			logx.Error().Err(err).Msg("negative capability failed")
			return RecoveryReply
		}
		return reply
	case CapabilityAcademic:
		return grades.Handle(message, session)
	case CapabilitySafety:
		return respond.SafetyReply()
	default:
		return RecoveryReply
	}
}

// wrapUp asks the model for a final answer once the tool budget is spent.
func (a *Agent) wrapUp(ctx context.Context, session *model.Session, msgs []*schema.Message) string {
	notice := fmt.Sprintf(
		"SYSTEM NOTICE: You have reached the maximum tool call limit (%d). "+
			"Please synthesize a helpful response using the information you've already gathered.",
		a.maxCalls,
	)
	msgs = append(msgs, schema.SystemMessage(notice))

	out, err := a.model.Generate(ctx, msgs)
	if err != nil || out == nil {
		logx.Error().Err(err).Str("session_id", session.ID).Msg("wrap-up generation failed")
		return RecoveryReply
	}
	reply := strings.TrimSpace(out.Content)
	if reply == "" {
		return RecoveryReply
	}
	return reply
}

func userPrompt(transcript, message string) string {
	if transcript == "" {
		return message
	}
	return fmt.Sprintf("Conversation so far:\n%s\n\nUser: %s", transcript, message)
}

// messageArgument extracts the message field from the tool arguments,
// tolerating plain-string or malformed payloads.
func messageArgument(arguments string) string {
	var args struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err == nil && strings.TrimSpace(args.Message) != "" {
		return args.Message
	}
	return strings.TrimSpace(arguments)
}
