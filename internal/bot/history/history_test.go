package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studybuddy/server/internal/bot/model"
)

func TestAppendTurnRecordsBothSides(t *testing.T) {
	a := NewAdapter(100)
	session := &model.Session{ID: "s1"}

	a.AppendTurn(session, "hello", "hi there")

	require.Len(t, session.History, 2)
	assert.Equal(t, model.Turn{Role: model.RoleUser, Text: "hello"}, session.History[0])
	assert.Equal(t, model.Turn{Role: model.RoleAssistant, Text: "hi there"}, session.History[1])
}

func TestBudgetEvictsOldestFirst(t *testing.T) {
	a := NewAdapter(20)
	session := &model.Session{ID: "s1"}

	a.AppendTurn(session, "aaaaa", "bbbbb") // 10 chars retained
	a.AppendTurn(session, "ccccc", "ddddd") // 20 chars retained
	a.AppendTurn(session, "eeeee", "fffff") // would be 30, evicts oldest

	assert.LessOrEqual(t, a.retained(session), 20)
	assert.Equal(t, "ccccc", session.History[0].Text)
	assert.Equal(t, "fffff", session.History[len(session.History)-1].Text)
}

func TestBudgetHeldAfterEveryAppend(t *testing.T) {
	a := NewAdapter(50)
	session := &model.Session{ID: "s1"}

	for i := 0; i < 25; i++ {
		a.AppendTurn(session, "some user text here", "some assistant reply here")
		assert.LessOrEqual(t, a.retained(session), 50)
	}
}

func TestTranscriptFormat(t *testing.T) {
	a := NewAdapter(0)
	session := &model.Session{ID: "s1"}

	assert.Equal(t, "", a.Transcript(session))

	a.AppendTurn(session, "Maths - 90", "Here are your updated grades")
	assert.Equal(t, "USER: Maths - 90\nBOT: Here are your updated grades", a.Transcript(session))
}
