package reminders

import (
	"context"
	"database/sql"
	"time"
)

// PGRepo implements Repo using Postgres. The partial index on unsent
// reminders keeps ListDue cheap regardless of table size.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new reminder.
func (r *PGRepo) Create(ctx context.Context, reminder Reminder) error {
	const query = `
INSERT INTO reminders (id, user_id, message, due_at, sent_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Message,
		reminder.DueAt,
		reminder.SentAt,
		reminder.CreatedAt,
	)
	return err
}

// ListByUser returns all reminders belonging to the user.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Reminder, error) {
	const query = `
SELECT id, user_id, message, due_at, sent_at, created_at
FROM reminders
WHERE user_id = $1
ORDER BY due_at`
	return r.queryMany(ctx, query, userID)
}

// ListDue returns unsent reminders due at or before now.
func (r *PGRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]Reminder, error) {
	const query = `
SELECT id, user_id, message, due_at, sent_at, created_at
FROM reminders
WHERE sent_at IS NULL AND due_at <= $1
ORDER BY due_at
LIMIT $2`
	return r.queryMany(ctx, query, now, limit)
}

// MarkSent claims the reminder, reporting false if it was already sent.
func (r *PGRepo) MarkSent(ctx context.Context, reminderID string, at time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE reminders SET sent_at = $1 WHERE id = $2 AND sent_at IS NULL`, at, reminderID,
	)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *PGRepo) queryMany(ctx context.Context, query string, args ...any) ([]Reminder, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reminders := []Reminder{}
	for rows.Next() {
		var rem Reminder
		if err := rows.Scan(&rem.ID, &rem.UserID, &rem.Message, &rem.DueAt, &rem.SentAt, &rem.CreatedAt); err != nil {
			return nil, err
		}
		reminders = append(reminders, rem)
	}
	return reminders, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
