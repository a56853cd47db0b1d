// Package history bounds and renders the running transcript kept on each
// session. The budget is expressed in characters of retained text; the
// oldest turns are evicted first.
package history

import (
	"strings"

	"github.com/studybuddy/server/internal/bot/model"
)

const DefaultBudget = 8000

type Adapter struct {
	budget int
}

func NewAdapter(budget int) *Adapter {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Adapter{budget: budget}
}

// AppendTurn records a full (user, assistant) exchange and then enforces
// the budget. Both entries land together, so a request that never finishes
// leaves no half-recorded turn behind.
func (a *Adapter) AppendTurn(session *model.Session, userText, assistantText string) {
	session.History = append(session.History,
		model.Turn{Role: model.RoleUser, Text: userText},
		model.Turn{Role: model.RoleAssistant, Text: assistantText},
	)
	a.trim(session)
}

// Transcript renders the retained history as USER:/BOT: lines for prompt
// construction.
func (a *Adapter) Transcript(session *model.Session) string {
	var b strings.Builder
	for _, turn := range session.History {
		if turn.Text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		if turn.Role == model.RoleUser {
			b.WriteString("USER: ")
		} else {
			b.WriteString("BOT: ")
		}
		b.WriteString(turn.Text)
	}
	return b.String()
}

func (a *Adapter) trim(session *model.Session) {
	for len(session.History) > 0 && a.retained(session) > a.budget {
		session.History = session.History[1:]
	}
}

func (a *Adapter) retained(session *model.Session) int {
	total := 0
	for _, turn := range session.History {
		total += len(turn.Text)
	}
	return total
}
