package respond

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	reply      string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	return f.reply, f.err
}

func TestPositivePromptAndTrim(t *testing.T) {
	gen := &fakeGenerator{reply: "  Keep it up! What made your day?  \n"}
	mentor := NewMentor(gen)

	out, err := mentor.Positive(context.Background(), "USER: hi\nBOT: hello", "I aced my exam!")
	require.NoError(t, err)
	assert.Equal(t, "Keep it up! What made your day?", out)

	assert.Contains(t, gen.lastPrompt, "motivating study mentor")
	assert.Contains(t, gen.lastPrompt, "USER: hi\nBOT: hello")
	assert.Contains(t, gen.lastPrompt, "I aced my exam!")
	assert.Contains(t, gen.lastPrompt, "2-3 sentences")
}

func TestNegativePrompt(t *testing.T) {
	gen := &fakeGenerator{reply: "That sounds hard."}
	mentor := NewMentor(gen)

	out, err := mentor.Negative(context.Background(), "", "I'm so stressed")
	require.NoError(t, err)
	assert.Equal(t, "That sounds hard.", out)

	assert.Contains(t, gen.lastPrompt, "calm, motivating mentor")
	assert.Contains(t, gen.lastPrompt, "one small, specific action")
}

func TestGeneratorErrorPropagates(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("timeout")}
	mentor := NewMentor(gen)

	_, err := mentor.Positive(context.Background(), "", "yay")
	assert.Error(t, err)
}

func TestSafetyReplyIsFixed(t *testing.T) {
	gen := &fakeGenerator{}
	_ = NewMentor(gen)

	out := SafetyReply()
	assert.Contains(t, out, "Aasra: +91 9820466726")
	assert.Contains(t, out, "iCall: 022-25521111")
	assert.Contains(t, out, "You're not alone.")
	assert.Zero(t, gen.calls, "safety path must never call the generation service")
}

func TestClarifyReply(t *testing.T) {
	assert.Equal(t, "Are you talking about yourself?", ClarifyReply())
}
