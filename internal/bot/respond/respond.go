// Package respond holds the reply strategies: prompt-backed positive and
// negative mentors, and the fixed safety and clarification templates.
package respond

import (
	"context"
	"fmt"
	"strings"

	"github.com/studybuddy/server/internal/bot/model"
)

// safetyReply is a fixed template on purpose: the highest-stakes path must
// never wait on, or fail with, the generation service.
const safetyReply = "I'm really sorry you're feeling like this.\n" +
	"I'm not able to help directly, but you should reach out to someone who can support you right now.\n" +
	"India → Aasra: +91 9820466726 | iCall: 022-25521111\n" +
	"You're not alone. Please talk to someone immediately."

const clarifyReply = "Are you talking about yourself?"

const positivePromptTemplate = `You are a motivating study mentor.

Conversation so far:
%s

User: %s

Goals:
- Acknowledge their positive feeling.
- Sound energetic but not cringe.
- Focus only on the user (use "you", not "I").
- NEVER talk about your own feelings or what "someone told you".
- End with one mentor-style question like:
  "What achievement made your day?" or
  "What are you most proud of today?"
Keep it within 2-3 sentences.
`

const negativePromptTemplate = `You are a calm, motivating mentor.

Conversation so far:
%s

User: %s

Goals:
- Acknowledge their feeling (stress, sadness, etc.).
- Normalize the struggle (it's okay, it happens).
- Suggest one small, specific action they can take today to feel more in control.
- Keep the focus on "you", not "I".
- Keep it concise (2-3 sentences).
`

// Mentor produces the affect-matched replies by delegating to the external
// text generator with a transcript-bearing prompt.
type Mentor struct {
	gen model.TextGenerator
}

func NewMentor(gen model.TextGenerator) *Mentor {
	return &Mentor{gen: gen}
}

// Positive replies to an upbeat message.
func (m *Mentor) Positive(ctx context.Context, transcript, message string) (string, error) {
	prompt := fmt.Sprintf(positivePromptTemplate, transcript, message)
	out, err := m.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// Negative replies to a stressed or sad message.
func (m *Mentor) Negative(ctx context.Context, transcript, message string) (string, error) {
	prompt := fmt.Sprintf(negativePromptTemplate, transcript, message)
	out, err := m.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// SafetyReply returns the canned self-harm response with helpline contacts.
func SafetyReply() string {
	return safetyReply
}

// ClarifyReply asks whether a possibly-sensitive message is first-person.
// Used only by the LLM routing policy's "unclear" category.
func ClarifyReply() string {
	return clarifyReply
}
