// Package repository provides data access for progress assessments recorded
// by mentors against prospects and formations.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("assessment not found")

// Assessment statuses follow the pedagogical review workflow.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Assessment struct {
	ID          uuid.UUID
	ProspectID  uuid.UUID
	FormationID uuid.UUID
	MentorID    uuid.UUID
	Score       *float64
	Status      string
	Comment     string
	AssessedAt  *time.Time
	CreatedAt   time.Time
}

const assessmentColumns = `id, prospect_id, formation_id, mentor_id, score, status, comment, assessed_at, created_at`

func scanAssessment(row pgx.Row) (Assessment, error) {
	var a Assessment
	err := row.Scan(
		&a.ID, &a.ProspectID, &a.FormationID, &a.MentorID,
		&a.Score, &a.Status, &a.Comment, &a.AssessedAt, &a.CreatedAt,
	)
	return a, err
}

type CreateAssessmentParams struct {
	ProspectID  uuid.UUID
	FormationID uuid.UUID
	MentorID    uuid.UUID
	Score       *float64
	Status      string
	Comment     string
	AssessedAt  *time.Time
}

func (r *Repository) Create(ctx context.Context, params CreateAssessmentParams) (Assessment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO progress_assessments (prospect_id, formation_id, mentor_id, score, status, comment, assessed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+assessmentColumns,
		params.ProspectID, params.FormationID, params.MentorID,
		params.Score, params.Status, params.Comment, params.AssessedAt,
	)
	return scanAssessment(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Assessment, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+assessmentColumns+` FROM progress_assessments WHERE id = $1`, id)
	a, err := scanAssessment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Assessment{}, ErrNotFound
	}
	return a, err
}

// ListParams filters the assessment listing. Nil filters are skipped in SQL
// via null checks, so one prepared query covers every combination.
type ListParams struct {
	MentorID    *uuid.UUID
	FormationID *uuid.UUID
	Status      *string
	From        *time.Time
	To          *time.Time
	Limit       int
	Offset      int
}

const listAssessmentsQuery = `
	SELECT ` + assessmentColumns + `
	FROM progress_assessments
	WHERE ($1::uuid IS NULL OR mentor_id = $1)
	  AND ($2::uuid IS NULL OR formation_id = $2)
	  AND ($3::text IS NULL OR status = $3)
	  AND ($4::timestamptz IS NULL OR assessed_at >= $4)
	  AND ($5::timestamptz IS NULL OR assessed_at <= $5)
	ORDER BY created_at DESC
	LIMIT $6 OFFSET $7`

func (r *Repository) List(ctx context.Context, params ListParams) ([]Assessment, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, listAssessmentsQuery,
		params.MentorID, params.FormationID, params.Status,
		params.From, params.To, limit, params.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assessments []Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

const countByStatusQuery = `
	SELECT status, COUNT(*)
	FROM progress_assessments
	GROUP BY status`

// CountByStatus returns the number of assessments per workflow status.
func (r *Repository) CountByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, countByStatusQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// FormationAverage is the mean score of completed assessments for one formation.
type FormationAverage struct {
	FormationID uuid.UUID
	Average     float64
	Count       int
}

const averageScoreByFormationQuery = `
	SELECT formation_id, AVG(score), COUNT(*)
	FROM progress_assessments
	WHERE status = 'completed' AND score IS NOT NULL
	GROUP BY formation_id
	ORDER BY AVG(score) DESC`

// AverageScoreByFormation aggregates completed scores per formation.
func (r *Repository) AverageScoreByFormation(ctx context.Context) ([]FormationAverage, error) {
	rows, err := r.pool.Query(ctx, averageScoreByFormationQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var averages []FormationAverage
	for rows.Next() {
		var fa FormationAverage
		if err := rows.Scan(&fa.FormationID, &fa.Average, &fa.Count); err != nil {
			return nil, err
		}
		averages = append(averages, fa)
	}
	return averages, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM progress_assessments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
