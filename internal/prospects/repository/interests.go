package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrCatalogNotFound is returned when a referenced formation or service does
// not exist (or no longer exists) in the catalog.
var ErrCatalogNotFound = errors.New("catalog entry not found")

// Formation is a training course from the catalog.
type Formation struct {
	ID        uuid.UUID
	Title     string
	Slug      string
	CreatedAt time.Time
}

// Service is a non-training offering from the catalog.
type Service struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	CreatedAt time.Time
}

// GetFormation reloads a formation by ID. Intake always reloads the catalog
// entry before attaching it, so a stale reference surfaces as
// ErrCatalogNotFound instead of a constraint violation.
func (r *Repository) GetFormation(ctx context.Context, id uuid.UUID) (Formation, error) {
	var f Formation
	err := r.pool.QueryRow(ctx, `
		SELECT id, title, slug, created_at FROM formations WHERE id = $1
	`, id).Scan(&f.ID, &f.Title, &f.Slug, &f.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Formation{}, ErrCatalogNotFound
	}
	return f, err
}

// GetService reloads a service by ID.
func (r *Repository) GetService(ctx context.Context, id uuid.UUID) (Service, error) {
	var s Service
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, slug, created_at FROM services WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.Slug, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Service{}, ErrCatalogNotFound
	}
	return s, err
}

// AddFormationInterest records a prospect's interest in a formation.
// Adding the same interest twice is a no-op.
func (r *Repository) AddFormationInterest(ctx context.Context, prospectID, formationID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prospect_formations (prospect_id, formation_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, prospectID, formationID)
	return err
}

// AddServiceInterest records a prospect's interest in a service.
// Adding the same interest twice is a no-op.
func (r *Repository) AddServiceInterest(ctx context.Context, prospectID, serviceID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO prospect_services (prospect_id, service_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, prospectID, serviceID)
	return err
}

// ListFormationInterests returns the formations a prospect is interested in.
func (r *Repository) ListFormationInterests(ctx context.Context, prospectID uuid.UUID) ([]Formation, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.id, f.title, f.slug, f.created_at
		FROM prospect_formations pf
		JOIN formations f ON f.id = pf.formation_id
		WHERE pf.prospect_id = $1
		ORDER BY f.title ASC
	`, prospectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	formations := make([]Formation, 0)
	for rows.Next() {
		var f Formation
		if err := rows.Scan(&f.ID, &f.Title, &f.Slug, &f.CreatedAt); err != nil {
			return nil, err
		}
		formations = append(formations, f)
	}
	return formations, rows.Err()
}

// ListServiceInterests returns the services a prospect is interested in.
func (r *Repository) ListServiceInterests(ctx context.Context, prospectID uuid.UUID) ([]Service, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT s.id, s.name, s.slug, s.created_at
		FROM prospect_services ps
		JOIN services s ON s.id = ps.service_id
		WHERE ps.prospect_id = $1
		ORDER BY s.name ASC
	`, prospectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	services := make([]Service, 0)
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.CreatedAt); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
