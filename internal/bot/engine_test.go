package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybuddy/server/internal/bot/history"
	"github.com/studybuddy/server/internal/bot/model"
	"github.com/studybuddy/server/internal/bot/respond"
	"github.com/studybuddy/server/internal/bot/router"
	"github.com/studybuddy/server/internal/bot/store"
)

type fakeGenerator struct {
	reply string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(context.Context, string) (string, error) {
	f.calls++
	return f.reply, f.err
}

type fakeFallback struct {
	reply string
	calls int
}

func (f *fakeFallback) Respond(context.Context, *model.Session, string, string) string {
	f.calls++
	return f.reply
}

type testEngine struct {
	*Engine
	repo     *store.MemoryRepository
	gen      *fakeGenerator
	fallback *fakeFallback
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()
	repo := store.NewMemoryRepository()
	gen := &fakeGenerator{reply: "generated reply"}
	fallback := &fakeFallback{reply: "fallback reply"}

	engine, err := New(Config{
		Repo:     repo,
		History:  history.NewAdapter(0),
		Mentor:   respond.NewMentor(gen),
		Policy:   router.NewKeywordPolicy(router.TriggerDigitOrKeyword),
		Fallback: fallback,
	})
	require.NoError(t, err)

	return &testEngine{Engine: engine, repo: repo, gen: gen, fallback: fallback}
}

func (e *testEngine) session(t *testing.T, id string) *model.Session {
	t.Helper()
	s, err := e.repo.GetOrCreate(context.Background(), id)
	require.NoError(t, err)
	return s
}

func (e *testEngine) bind(t *testing.T, id string) {
	t.Helper()
	e.Chat(context.Background(), "hello I am Priya", id)
}

func TestChatEmptyMessage(t *testing.T) {
	e := newTestEngine(t)

	assert.Equal(t, "Please type something.", e.Chat(context.Background(), "   ", "s1"))
}

func TestChatSafetyOverridesEverything(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// Digits, positive words and an unbound name are all present; safety
	// still wins, and the turn is recorded.
	out := e.Chat(ctx, "I got 95 and I'm happy but I want to kill myself", "s1")
	assert.Contains(t, out, "Aasra")

	session := e.session(t, "s1")
	assert.Empty(t, session.Name, "safety must run before name binding")
	require.Len(t, session.History, 2)
	assert.Contains(t, session.History[1].Text, "Aasra")
}

func TestChatExitPhrase(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	assert.Equal(t, "Bye Friend. Keep going—you're capable of more than you think.",
		e.Chat(ctx, "goodbye", "s1"))

	e.bind(t, "s1")
	before := len(e.session(t, "s1").History)

	out := e.Chat(ctx, "ok bye now", "s1")
	assert.Contains(t, out, "Bye Priya")
	assert.Len(t, e.session(t, "s1").History, before, "farewells are not recorded")
}

func TestChatNameBindingConsumesFirstTurn(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	out := e.Chat(ctx, "Hello I am Priya", "s1")
	assert.Equal(t, "Nice to meet you, Priya. What would you like to work on today?", out)

	// The next message must reach the grade engine, not name extraction.
	out = e.Chat(ctx, "Maths - 90", "s1")
	assert.Contains(t, out, "| Maths | 90 | S |")
	assert.Equal(t, "Priya", e.session(t, "s1").Name)
}

func TestChatNameNotOverwrittenByOrdinaryTurns(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.bind(t, "s1")

	e.Chat(ctx, "my name is Arjun and I'm happy", "s1")
	assert.Equal(t, "Priya", e.session(t, "s1").Name)
}

func TestSetNameExplicitOverride(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.bind(t, "s1")

	out := e.SetName(ctx, "my name is Arjun", "s1")
	assert.Equal(t, "Nice to meet you, Arjun. What would you like to work on today?", out)
	assert.Equal(t, "Arjun", e.session(t, "s1").Name)
}

func TestChatNameFallsBackToLastToken(t *testing.T) {
	e := newTestEngine(t)

	out := e.Chat(context.Background(), "priya", "s1")
	assert.Contains(t, out, "Nice to meet you, Priya.")
}

func TestChatAffectRoutes(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.bind(t, "s1")

	out := e.Chat(ctx, "I'm so happy today", "s1")
	assert.Equal(t, "generated reply", out)

	out = e.Chat(ctx, "feeling very stressed about exams", "s1")
	assert.Equal(t, "generated reply", out)
	assert.Equal(t, 2, e.gen.calls)
}

func TestChatGenerationFailureDegrades(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.bind(t, "s1")
	e.gen.err = errors.New("service unavailable")

	out := e.Chat(ctx, "I'm so happy today", "s1")
	assert.Equal(t, recoveryReply, out)
}

func TestChatFallbackRoute(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	e.bind(t, "s1")

	out := e.Chat(ctx, "what should I eat for lunch", "s1")
	assert.Equal(t, "fallback reply", out)
	assert.Equal(t, 1, e.fallback.calls)

	// Fallback replies are part of the transcript like any other branch.
	last := e.session(t, "s1").History
	assert.Equal(t, "fallback reply", last[len(last)-1].Text)
}

func TestChatEndToEndScenario(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	out := e.Chat(ctx, "hi, I'm Rahul", "S1")
	assert.Contains(t, out, "Rahul")

	out = e.Chat(ctx, "Maths - 91, Physics - 80", "S1")
	assert.Contains(t, out, "| Maths | 91 | S |")
	assert.Contains(t, out, "| Physics | 80 | A |")
	assert.Contains(t, out, "Overall: **85.50% → Grade A**.")

	first := e.Chat(ctx, "show my grades", "S1")
	assert.Contains(t, first, "| Maths | 91 | S |")
	assert.Contains(t, first, "| Physics | 80 | A |")

	second := e.Chat(ctx, "show my grades", "S1")
	assert.Equal(t, first, second, "re-rendering must not mutate marks")
}

func TestChatSessionsAreIsolated(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	e.Chat(ctx, "I am Priya", "s1")
	e.Chat(ctx, "I am Rahul", "s2")
	e.Chat(ctx, "Maths - 90", "s1")

	assert.Equal(t, "Priya", e.session(t, "s1").Name)
	assert.Equal(t, "Rahul", e.session(t, "s2").Name)
	assert.Empty(t, e.session(t, "s2").Marks)
}

func TestExtractName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"my name is Arjun", "Arjun"},
		{"hello I am priya", "Priya"},
		{"I'm Rahul", "Rahul"},
		{"this is Meera", "Meera"},
		{"just rahul", "Rahul"},
		{"", "Friend"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractName(tc.in), "input %q", tc.in)
	}
}
