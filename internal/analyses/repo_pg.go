package analyses

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, user_id, file_name, storage_key, extracted_text,
       alb, alp, che, bil, ast, alt, chol, crea, ggt, prot,
       ai_feedback, created_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO medical_analyses (
	id, user_id, file_name, storage_key, extracted_text,
	alb, alp, che, bil, ast, alt, chol, crea, ggt, prot,
	ai_feedback, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.FileName,
		analysis.StorageKey,
		analysis.ExtractedText,
		analysis.Albumin,
		analysis.AlkalinePhosphatase,
		analysis.Cholinesterase,
		analysis.Bilirubin,
		analysis.AST,
		analysis.ALT,
		analysis.Cholesterol,
		analysis.Creatinine,
		analysis.GGT,
		analysis.TotalProtein,
		analysis.AIFeedback,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `
SELECT ` + analysisColumns + `
FROM medical_analyses
WHERE id = $1
LIMIT 1`
	analysis, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return analysis, err
}

// ListByUser returns a page of the user's analyses, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	query := `
SELECT ` + analysisColumns + `
FROM medical_analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analyses := []Analysis{}
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}

// CountByUser returns the user's total number of analyses.
func (r *PGRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM medical_analyses WHERE user_id = $1`, userID,
	).Scan(&count)
	return count, err
}

// Delete removes an analysis row.
func (r *PGRepo) Delete(ctx context.Context, analysisID string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM medical_analyses WHERE id = $1`, analysisID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateFeedback overwrites only the feedback text.
func (r *PGRepo) UpdateFeedback(ctx context.Context, analysisID, feedback string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE medical_analyses SET ai_feedback = $1 WHERE id = $2`, feedback, analysisID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.FileName,
		&a.StorageKey,
		&a.ExtractedText,
		&a.Albumin,
		&a.AlkalinePhosphatase,
		&a.Cholinesterase,
		&a.Bilirubin,
		&a.AST,
		&a.ALT,
		&a.Cholesterol,
		&a.Creatinine,
		&a.GGT,
		&a.TotalProtein,
		&a.AIFeedback,
		&a.CreatedAt,
	)
	return a, err
}

var _ Repo = (*PGRepo)(nil)
