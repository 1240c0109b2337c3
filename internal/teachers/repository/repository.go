// Package repository provides data access for teacher records.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("teacher not found")
var ErrEmailTaken = errors.New("email already registered")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Teacher struct {
	ID        uuid.UUID
	Email     string
	FirstName string
	LastName  string
	Specialty string
	Bio       string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

const teacherColumns = `id, email, first_name, last_name, specialty, bio, is_active, created_at, updated_at`

func scanTeacher(row pgx.Row) (Teacher, error) {
	var t Teacher
	err := row.Scan(
		&t.ID, &t.Email, &t.FirstName, &t.LastName, &t.Specialty,
		&t.Bio, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

type CreateTeacherParams struct {
	Email     string
	FirstName string
	LastName  string
	Specialty string
	Bio       string
}

func (r *Repository) Create(ctx context.Context, params CreateTeacherParams) (Teacher, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO teachers (email, first_name, last_name, specialty, bio)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+teacherColumns,
		params.Email, params.FirstName, params.LastName, params.Specialty, params.Bio,
	)
	t, err := scanTeacher(row)
	if err != nil {
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return Teacher{}, ErrEmailTaken
		}
		return Teacher{}, err
	}
	return t, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Teacher, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id)
	t, err := scanTeacher(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Teacher{}, ErrNotFound
	}
	return t, err
}

func (r *Repository) List(ctx context.Context, activeOnly bool) ([]Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY last_name ASC, first_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teachers []Teacher
	for rows.Next() {
		t, err := scanTeacher(rows)
		if err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, rows.Err()
}

type UpdateTeacherParams struct {
	FirstName *string
	LastName  *string
	Specialty *string
	Bio       *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateTeacherParams) (Teacher, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.FirstName != nil {
		addSet("first_name", *params.FirstName)
	}
	if params.LastName != nil {
		addSet("last_name", *params.LastName)
	}
	if params.Specialty != nil {
		addSet("specialty", *params.Specialty)
	}
	if params.Bio != nil {
		addSet("bio", *params.Bio)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE teachers SET %s WHERE id = $%d RETURNING `+teacherColumns,
		strings.Join(setClauses, ", "), argIdx)

	t, err := scanTeacher(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Teacher{}, ErrNotFound
	}
	return t, err
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (Teacher, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE teachers SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+teacherColumns,
		id, active,
	)
	t, err := scanTeacher(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Teacher{}, ErrNotFound
	}
	return t, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
