// Package repository provides data access for document type configuration.
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

var ErrNotFound = errors.New("document type not found")
var ErrDuplicate = errors.New("document type code or slug already exists")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type DocumentType struct {
	ID          uuid.UUID
	Name        string
	Code        string
	Slug        string
	Description string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const documentTypeColumns = `id, name, code, slug, description, is_active, created_at, updated_at`

func scanDocumentType(row pgx.Row) (DocumentType, error) {
	var dt DocumentType
	err := row.Scan(
		&dt.ID, &dt.Name, &dt.Code, &dt.Slug, &dt.Description,
		&dt.Active, &dt.CreatedAt, &dt.UpdatedAt,
	)
	return dt, err
}

type CreateDocumentTypeParams struct {
	Name        string
	Code        string
	Slug        string
	Description string
}

func (r *Repository) Create(ctx context.Context, params CreateDocumentTypeParams) (DocumentType, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO document_types (name, code, slug, description)
		VALUES ($1, $2, $3, $4)
		RETURNING `+documentTypeColumns,
		params.Name, params.Code, params.Slug, params.Description,
	)
	dt, err := scanDocumentType(row)
	if err != nil {
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return DocumentType{}, ErrDuplicate
		}
		return DocumentType{}, err
	}
	return dt, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (DocumentType, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentTypeColumns+` FROM document_types WHERE id = $1`, id)
	dt, err := scanDocumentType(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return DocumentType{}, ErrNotFound
	}
	return dt, err
}

func (r *Repository) List(ctx context.Context, activeOnly bool) ([]DocumentType, error) {
	query := `SELECT ` + documentTypeColumns + ` FROM document_types`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []DocumentType
	for rows.Next() {
		dt, err := scanDocumentType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, dt)
	}
	return types, rows.Err()
}

// CountCodesWithPrefix returns how many codes already start with the prefix.
// Code generation appends the next zero-padded sequence number.
func (r *Repository) CountCodesWithPrefix(ctx context.Context, prefix string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM document_types WHERE code LIKE $1 || '-%'
	`, prefix).Scan(&count)
	return count, err
}

type UpdateDocumentTypeParams struct {
	Name        *string
	Slug        *string
	Description *string
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateDocumentTypeParams) (DocumentType, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if params.Name != nil {
		addSet("name", *params.Name)
	}
	if params.Slug != nil {
		addSet("slug", *params.Slug)
	}
	if params.Description != nil {
		addSet("description", *params.Description)
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE document_types SET %s WHERE id = $%d RETURNING `+documentTypeColumns,
		strings.Join(setClauses, ", "), argIdx)

	dt, err := scanDocumentType(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return DocumentType{}, ErrNotFound
		}
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return DocumentType{}, ErrDuplicate
		}
	}
	return dt, err
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (DocumentType, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE document_types SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+documentTypeColumns,
		id, active,
	)
	dt, err := scanDocumentType(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return DocumentType{}, ErrNotFound
	}
	return dt, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM document_types WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
