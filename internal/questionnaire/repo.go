package questionnaire

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a user has no questionnaire yet.
var ErrNotFound = errors.New("not found")

// Repo defines persistence operations for questionnaires.
type Repo interface {
	// Upsert writes the answer set for the user, inserting or overwriting
	// the single row that user owns.
	Upsert(ctx context.Context, q Questionnaire) (Questionnaire, error)
	GetByUser(ctx context.Context, userID string) (Questionnaire, error)
}
