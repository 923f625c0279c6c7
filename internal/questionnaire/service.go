package questionnaire

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service implements questionnaire submission.
type Service struct {
	Repo Repo
}

// NewService constructs a Service.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Submit saves the user's answer set, creating or overwriting their single row.
func (s *Service) Submit(ctx context.Context, userID string, flags Flags) (Questionnaire, error) {
	now := time.Now().UTC()
	return s.Repo.Upsert(ctx, Questionnaire{
		ID:         uuid.NewString(),
		UserID:     userID,
		BMI:        flags.BMI,
		Fever:      flags.Fever,
		Nausea:     flags.Nausea,
		Headache:   flags.Headache,
		Diarrhea:   flags.Diarrhea,
		Fatigue:    flags.Fatigue,
		Jaundice:   flags.Jaundice,
		Epigastric: flags.Epigastric,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
}
