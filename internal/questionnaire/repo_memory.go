package questionnaire

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo stores questionnaires in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byUser map[string]Questionnaire
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byUser: make(map[string]Questionnaire)}
}

// Upsert writes the answer set, keeping one row per user.
func (r *MemoryRepo) Upsert(ctx context.Context, q Questionnaire) (Questionnaire, error) {
	if err := ctx.Err(); err != nil {
		return Questionnaire{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byUser[q.UserID]; ok {
		q.ID = existing.ID
		q.CreatedAt = existing.CreatedAt
	}
	q.UpdatedAt = time.Now().UTC()
	r.byUser[q.UserID] = q
	return q, nil
}

// GetByUser returns the user's questionnaire.
func (r *MemoryRepo) GetByUser(ctx context.Context, userID string) (Questionnaire, error) {
	if err := ctx.Err(); err != nil {
		return Questionnaire{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.byUser[userID]
	if !ok {
		return Questionnaire{}, ErrNotFound
	}
	return q, nil
}

var _ Repo = (*MemoryRepo)(nil)
