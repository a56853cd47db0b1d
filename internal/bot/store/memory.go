// Package store provides the session repository backings: an in-memory map
// for the default process-lifetime deployment and a Redis variant for
// deployments that want state to survive the process.
package store

import (
	"context"
	"sync"

	"github.com/studybuddy/server/internal/bot/model"
)

// MemoryRepository keeps sessions in a mutex-guarded map for the lifetime
// of the process. Sessions for different keys are fully isolated; the
// caller is expected to run at most one turn per session key at a time.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]*model.Session
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]*model.Session)}
}

func (r *MemoryRepository) GetOrCreate(_ context.Context, id string) (*model.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	s := &model.Session{ID: id}
	r.sessions[id] = s
	return s, nil
}

func (r *MemoryRepository) Save(_ context.Context, session *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.ID] = session
	return nil
}

var _ model.SessionRepository = (*MemoryRepository)(nil)
