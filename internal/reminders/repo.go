package reminders

import (
	"context"
	"time"
)

// Repo defines persistence operations for reminders.
type Repo interface {
	Create(ctx context.Context, reminder Reminder) error
	ListByUser(ctx context.Context, userID string) ([]Reminder, error)
	// ListDue returns unsent reminders whose due time has passed.
	ListDue(ctx context.Context, now time.Time, limit int) ([]Reminder, error)
	// MarkSent claims a reminder for delivery. It reports false when the
	// reminder was already claimed, so concurrent dispatchers send at most
	// one notification each.
	MarkSent(ctx context.Context, reminderID string, at time.Time) (bool, error)
}
