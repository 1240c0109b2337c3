package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNoteNotFound is returned when a prospect note does not exist.
var ErrNoteNotFound = errors.New("prospect note not found")

// ProspectNote is a free-form annotation attached to a prospect by back-office staff.
type ProspectNote struct {
	ID         uuid.UUID
	ProspectID uuid.UUID
	AuthorID   *uuid.UUID
	Type       string
	Body       string
	CreatedAt  time.Time
}

type CreateNoteParams struct {
	ProspectID uuid.UUID
	AuthorID   *uuid.UUID
	Type       string
	Body       string
}

func (r *Repository) CreateNote(ctx context.Context, params CreateNoteParams) (ProspectNote, error) {
	var note ProspectNote
	err := r.pool.QueryRow(ctx, `
		INSERT INTO prospect_notes (prospect_id, author_id, type, body)
		VALUES ($1, $2, $3, $4)
		RETURNING id, prospect_id, author_id, type, body, created_at
	`, params.ProspectID, params.AuthorID, params.Type, params.Body).Scan(
		&note.ID, &note.ProspectID, &note.AuthorID, &note.Type, &note.Body, &note.CreatedAt,
	)
	return note, err
}

type NoteListParams struct {
	ProspectID uuid.UUID
	Type       *string
	Since      *time.Time
	Limit      int
	Offset     int
}

const listNotesQuery = `
	SELECT id, prospect_id, author_id, type, body, created_at
	FROM prospect_notes
	WHERE prospect_id = $1
	  AND ($2::text IS NULL OR type = $2)
	  AND ($3::timestamptz IS NULL OR created_at >= $3)
	ORDER BY created_at DESC
	LIMIT $4 OFFSET $5`

func (r *Repository) ListNotes(ctx context.Context, params NoteListParams) ([]ProspectNote, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, listNotesQuery,
		params.ProspectID, params.Type, params.Since, limit, params.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]ProspectNote, 0)
	for rows.Next() {
		var note ProspectNote
		if err := rows.Scan(&note.ID, &note.ProspectID, &note.AuthorID, &note.Type, &note.Body, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

const countNotesByTypeQuery = `
	SELECT type, COUNT(*)
	FROM prospect_notes
	WHERE prospect_id = $1
	GROUP BY type
	ORDER BY type`

// CountNotesByType returns the note count per type for a prospect.
func (r *Repository) CountNotesByType(ctx context.Context, prospectID uuid.UUID) (map[string]int, error) {
	rows, err := r.pool.Query(ctx, countNotesByTypeQuery, prospectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var noteType string
		var n int
		if err := rows.Scan(&noteType, &n); err != nil {
			return nil, err
		}
		counts[noteType] = n
	}
	return counts, rows.Err()
}

func (r *Repository) DeleteNote(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM prospect_notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}
