package reminders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"labreport-backend/internal/users"
)

// UserDirectory resolves reminder owners to their account records.
type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (users.User, error)
}

// Service implements reminder creation and listing.
type Service struct {
	Repo  Repo
	Users UserDirectory
}

// NewService constructs a Service.
func NewService(repo Repo, dir UserDirectory) *Service {
	return &Service{Repo: repo, Users: dir}
}

// Create validates and stores a reminder. The date must be ISO 8601 and the
// user must exist. Delivery happens later through the Scheduler; nothing is
// scheduled in-process, so a restart cannot lose the reminder.
func (s *Service) Create(ctx context.Context, userID, message, date string) (Reminder, error) {
	dueAt, err := time.Parse(time.RFC3339, strings.TrimSpace(date))
	if err != nil {
		return Reminder{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	if _, err := s.Users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return Reminder{}, ErrUserNotFound
		}
		return Reminder{}, err
	}

	reminder := Reminder{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		DueAt:     dueAt.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, reminder); err != nil {
		return Reminder{}, err
	}
	return reminder, nil
}

// ListByUser returns all reminders belonging to the user.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]Reminder, error) {
	return s.Repo.ListByUser(ctx, userID)
}
