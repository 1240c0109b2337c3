// Package repository provides data access for mentor accounts and their
// one-shot tokens.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("mentor not found")
var ErrEmailTaken = errors.New("email already registered")

const (
	TokenTypeEmailVerify   = "EMAIL_VERIFY"
	TokenTypePasswordReset = "PASSWORD_RESET"
)

const (
	RoleMentor = "mentor"
	RoleAdmin  = "admin"
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Mentor struct {
	ID            uuid.UUID
	Email         string
	FirstName     string
	LastName      string
	PasswordHash  string
	Role          string
	Active        bool
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

const mentorColumns = `id, email, first_name, last_name, password_hash, role, is_active, is_email_verified, created_at, updated_at`

func scanMentor(row pgx.Row) (Mentor, error) {
	var m Mentor
	err := row.Scan(
		&m.ID, &m.Email, &m.FirstName, &m.LastName, &m.PasswordHash,
		&m.Role, &m.Active, &m.EmailVerified, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

type CreateMentorParams struct {
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	Role         string
}

func (r *Repository) Create(ctx context.Context, params CreateMentorParams) (Mentor, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO mentors (email, first_name, last_name, password_hash, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+mentorColumns,
		params.Email, params.FirstName, params.LastName, params.PasswordHash, params.Role,
	)
	m, err := scanMentor(row)
	if err != nil {
		var pgErr interface{ SQLState() string }
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return Mentor{}, ErrEmailTaken
		}
		return Mentor{}, err
	}
	return m, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Mentor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+mentorColumns+` FROM mentors WHERE id = $1`, id)
	m, err := scanMentor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Mentor{}, ErrNotFound
	}
	return m, err
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (Mentor, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+mentorColumns+` FROM mentors WHERE email = $1`, email)
	m, err := scanMentor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Mentor{}, ErrNotFound
	}
	return m, err
}

func (r *Repository) List(ctx context.Context) ([]Mentor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+mentorColumns+` FROM mentors ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var mentors []Mentor
	for rows.Next() {
		m, err := scanMentor(rows)
		if err != nil {
			return nil, err
		}
		mentors = append(mentors, m)
	}
	return mentors, rows.Err()
}

func (r *Repository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE mentors SET is_email_verified = true, updated_at = now() WHERE id = $1
	`, id)
	return err
}

func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE mentors SET password_hash = $2, updated_at = now() WHERE id = $1
	`, id, passwordHash)
	return err
}

func (r *Repository) SetActive(ctx context.Context, id uuid.UUID, active bool) (Mentor, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE mentors SET is_active = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+mentorColumns,
		id, active,
	)
	m, err := scanMentor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Mentor{}, ErrNotFound
	}
	return m, err
}

func (r *Repository) CreateToken(ctx context.Context, mentorID uuid.UUID, tokenHash, tokenType string, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO mentor_tokens (mentor_id, token_hash, type, expires_at)
		VALUES ($1, $2, $3, $4)
	`, mentorID, tokenHash, tokenType, expiresAt)
	return err
}

func (r *Repository) GetToken(ctx context.Context, tokenHash, tokenType string) (uuid.UUID, time.Time, error) {
	var mentorID uuid.UUID
	var expiresAt time.Time
	err := r.pool.QueryRow(ctx, `
		SELECT mentor_id, expires_at FROM mentor_tokens
		WHERE token_hash = $1 AND type = $2 AND used_at IS NULL
	`, tokenHash, tokenType).Scan(&mentorID, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.UUID{}, time.Time{}, ErrNotFound
	}
	return mentorID, expiresAt, err
}

func (r *Repository) UseToken(ctx context.Context, tokenHash, tokenType string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE mentor_tokens SET used_at = now()
		WHERE token_hash = $1 AND type = $2 AND used_at IS NULL
	`, tokenHash, tokenType)
	return err
}
