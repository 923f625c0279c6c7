package reminders

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo stores reminders in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Reminder
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Reminder)}
}

// Create stores the reminder.
func (r *MemoryRepo) Create(ctx context.Context, reminder Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[reminder.ID] = reminder
	return nil
}

// ListByUser returns all reminders belonging to the user.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Reminder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []Reminder{}
	for _, rem := range r.byID {
		if rem.UserID == userID {
			out = append(out, rem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	return out, nil
}

// ListDue returns unsent reminders due at or before now.
func (r *MemoryRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]Reminder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var due []Reminder
	for _, rem := range r.byID {
		if rem.SentAt == nil && !rem.DueAt.After(now) {
			due = append(due, rem)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].DueAt.Before(due[j].DueAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, nil
}

// MarkSent claims the reminder, reporting false if it was already sent.
func (r *MemoryRepo) MarkSent(ctx context.Context, reminderID string, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	rem, ok := r.byID[reminderID]
	if !ok {
		return false, ErrNotFound
	}
	if rem.SentAt != nil {
		return false, nil
	}
	rem.SentAt = &at
	r.byID[reminderID] = rem
	return true, nil
}

var _ Repo = (*MemoryRepo)(nil)
