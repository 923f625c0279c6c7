package reminders

import (
	"context"
	"fmt"
	"time"

	"labreport-backend/internal/shared/metrics"
	"labreport-backend/internal/shared/telemetry"
)

const (
	defaultPollInterval = 30 * time.Second
	dispatchBatchSize   = 50
)

// Scheduler delivers due reminders by polling the store. Reminders survive
// restarts because due-ness lives in the database, not in process timers; a
// reminder that came due while the process was down is picked up on the next
// poll. Claiming (MarkSent) happens before sending, so a delivery failure is
// logged but never retried automatically.
type Scheduler struct {
	Repo   Repo
	Users  UserDirectory
	Mailer Mailer

	Interval time.Duration
}

// NewScheduler constructs a Scheduler polling at the given interval
// (defaulting to 30s when zero).
func NewScheduler(repo Repo, dir UserDirectory, mailer Mailer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &Scheduler{Repo: repo, Users: dir, Mailer: mailer, Interval: interval}
}

// Start runs the polling loop until ctx is canceled. An immediate first pass
// catches reminders that came due while the process was down.
func (s *Scheduler) Start(ctx context.Context) {
	go func() {
		s.dispatchDue(ctx)

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.dispatchDue(ctx)
			}
		}
	}()
}

// dispatchDue claims and sends every due reminder, returning how many were
// dispatched.
func (s *Scheduler) dispatchDue(ctx context.Context) int {
	now := time.Now().UTC()
	due, err := s.Repo.ListDue(ctx, now, dispatchBatchSize)
	if err != nil {
		telemetry.Error("reminders.poll_failed", map[string]any{"error": err.Error()})
		return 0
	}

	sent := 0
	for _, reminder := range due {
		claimed, err := s.Repo.MarkSent(ctx, reminder.ID, now)
		if err != nil {
			telemetry.Error("reminders.claim_failed", map[string]any{"reminderId": reminder.ID, "error": err.Error()})
			continue
		}
		if !claimed {
			continue
		}

		if err := s.deliver(ctx, reminder); err != nil {
			metrics.IncReminderSendFailed()
			telemetry.Error("reminders.send_failed", map[string]any{"reminderId": reminder.ID, "error": err.Error()})
			continue
		}
		sent++
		metrics.IncReminderSent()
		telemetry.Info("reminders.sent", map[string]any{"reminderId": reminder.ID, "userId": reminder.UserID})
	}
	return sent
}

func (s *Scheduler) deliver(ctx context.Context, reminder Reminder) error {
	user, err := s.Users.GetByID(ctx, reminder.UserID)
	if err != nil {
		return fmt.Errorf("resolve user: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nThis is a reminder for: %q.\n\nBest regards,\nYour App Team", user.Name, reminder.Message)
	return s.Mailer.Send(ctx, user.Email, "Reminder Notification", body)
}
