package analyses

import "context"

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, analysisID string) error
	UpdateFeedback(ctx context.Context, analysisID, feedback string) error
}
