package questionnaire

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres. The user_id unique constraint makes
// the upsert race-free: concurrent submissions for one user converge on the
// same row.
type PGRepo struct {
	DB *sql.DB
}

// Upsert inserts or overwrites the user's single questionnaire row.
func (r *PGRepo) Upsert(ctx context.Context, q Questionnaire) (Questionnaire, error) {
	const query = `
INSERT INTO questionnaires (
	id, user_id, bmi, fever, nausea, headache, diarrhea, fatigue, jaundice, epigastric, created_at, updated_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
	bmi = EXCLUDED.bmi,
	fever = EXCLUDED.fever,
	nausea = EXCLUDED.nausea,
	headache = EXCLUDED.headache,
	diarrhea = EXCLUDED.diarrhea,
	fatigue = EXCLUDED.fatigue,
	jaundice = EXCLUDED.jaundice,
	epigastric = EXCLUDED.epigastric,
	updated_at = now()
RETURNING id, user_id, bmi, fever, nausea, headache, diarrhea, fatigue, jaundice, epigastric, created_at, updated_at`
	row := r.DB.QueryRowContext(ctx, query,
		q.ID,
		q.UserID,
		q.BMI,
		q.Fever,
		q.Nausea,
		q.Headache,
		q.Diarrhea,
		q.Fatigue,
		q.Jaundice,
		q.Epigastric,
	)
	return scanOne(row)
}

// GetByUser returns the user's questionnaire.
func (r *PGRepo) GetByUser(ctx context.Context, userID string) (Questionnaire, error) {
	const query = `
SELECT id, user_id, bmi, fever, nausea, headache, diarrhea, fatigue, jaundice, epigastric, created_at, updated_at
FROM questionnaires
WHERE user_id = $1
LIMIT 1`
	return scanOne(r.DB.QueryRowContext(ctx, query, userID))
}

func scanOne(row *sql.Row) (Questionnaire, error) {
	var q Questionnaire
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.BMI,
		&q.Fever,
		&q.Nausea,
		&q.Headache,
		&q.Diarrhea,
		&q.Fatigue,
		&q.Jaundice,
		&q.Epigastric,
		&q.CreatedAt,
		&q.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Questionnaire{}, ErrNotFound
	}
	if err != nil {
		return Questionnaire{}, err
	}
	return q, nil
}

var _ Repo = (*PGRepo)(nil)
