package model

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Mark is one subject/score entry. Marks keep insertion order because the
// rendered table lists subjects in the order the student first mentioned them.
type Mark struct {
	Subject string `json:"subject"`
	Score   int    `json:"score"`
}

// Turn is a single transcript entry.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Session is the per-conversation state: bound name, subject marks and the
// running transcript. It is mutated only by the turn currently processing it.
type Session struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Marks   []Mark `json:"marks,omitempty"`
	History []Turn `json:"history,omitempty"`
}

// ClampScore limits a score to the storable [0,100] range.
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// SetMark stores a clamped score for the subject, overwriting a previous
// entry in place so insertion order is preserved.
func (s *Session) SetMark(subject string, score int) {
	score = ClampScore(score)
	for i := range s.Marks {
		if s.Marks[i].Subject == subject {
			s.Marks[i].Score = score
			return
		}
	}
	s.Marks = append(s.Marks, Mark{Subject: subject, Score: score})
}

// Score returns the stored score for a subject.
func (s *Session) Score(subject string) (int, bool) {
	for _, m := range s.Marks {
		if m.Subject == subject {
			return m.Score, true
		}
	}
	return 0, false
}

// SessionRepository hands out isolated per-key session state. Unknown keys
// yield a fresh session rather than an error.
type SessionRepository interface {
	// GetOrCreate returns the session for the key, creating it lazily.
	GetOrCreate(ctx context.Context, id string) (*Session, error)

	// Save persists the session after a turn mutated it.
	Save(ctx context.Context, session *Session) error
}

// TextGenerator is the external text-generation collaborator:
// prompt in, completion out. It may be slow and it may fail.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
