package repository

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"
)

// ErrTouchpointNotFound is returned when a touchpoint row does not exist.
var ErrTouchpointNotFound = errors.New("touchpoint not found")

// ContactRequest is an immutable business fact recorded from the public
// contact form. Only its prospect foreign key is ever repointed.
type ContactRequest struct {
	ID          uuid.UUID
	ProspectID  *uuid.UUID
	Type        string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Company     string
	Message     string
	ServiceID   *uuid.UUID
	FormationID *uuid.UUID
	CreatedAt   time.Time
}

// SessionRegistration records a signup for a training session.
type SessionRegistration struct {
	ID          uuid.UUID
	ProspectID  *uuid.UUID
	FormationID uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Company     string
	CreatedAt   time.Time
}

// NeedsAnalysisRequest records a training needs-analysis submission.
type NeedsAnalysisRequest struct {
	ID          uuid.UUID
	ProspectID  *uuid.UUID
	FormationID *uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Company     string
	Position    string
	Notes       string
	CreatedAt   time.Time
}

type CreateContactRequestParams struct {
	Type        string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Company     string
	Message     string
	ServiceID   *uuid.UUID
	FormationID *uuid.UUID
}

func (r *Repository) CreateContactRequest(ctx context.Context, params CreateContactRequestParams) (ContactRequest, error) {
	var cr ContactRequest
	err := r.pool.QueryRow(ctx, `
		INSERT INTO contact_requests (type, first_name, last_name, email, phone, company, message, service_id, formation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, prospect_id, type, first_name, last_name, email, phone, company, message, service_id, formation_id, created_at
	`,
		params.Type, params.FirstName, params.LastName, params.Email, params.Phone,
		params.Company, params.Message, params.ServiceID, params.FormationID,
	).Scan(
		&cr.ID, &cr.ProspectID, &cr.Type, &cr.FirstName, &cr.LastName, &cr.Email, &cr.Phone,
		&cr.Company, &cr.Message, &cr.ServiceID, &cr.FormationID, &cr.CreatedAt,
	)
	return cr, err
}

func (r *Repository) GetContactRequest(ctx context.Context, id uuid.UUID) (ContactRequest, error) {
	var cr ContactRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id, prospect_id, type, first_name, last_name, email, phone, company, message, service_id, formation_id, created_at
		FROM contact_requests WHERE id = $1
	`, id).Scan(
		&cr.ID, &cr.ProspectID, &cr.Type, &cr.FirstName, &cr.LastName, &cr.Email, &cr.Phone,
		&cr.Company, &cr.Message, &cr.ServiceID, &cr.FormationID, &cr.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ContactRequest{}, ErrTouchpointNotFound
	}
	return cr, err
}

type CreateSessionRegistrationParams struct {
	FormationID uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Company     string
}

func (r *Repository) CreateSessionRegistration(ctx context.Context, params CreateSessionRegistrationParams) (SessionRegistration, error) {
	var sr SessionRegistration
	err := r.pool.QueryRow(ctx, `
		INSERT INTO session_registrations (formation_id, first_name, last_name, email, phone, company)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, prospect_id, formation_id, first_name, last_name, email, phone, company, created_at
	`,
		params.FormationID, params.FirstName, params.LastName, params.Email, params.Phone, params.Company,
	).Scan(
		&sr.ID, &sr.ProspectID, &sr.FormationID, &sr.FirstName, &sr.LastName, &sr.Email, &sr.Phone,
		&sr.Company, &sr.CreatedAt,
	)
	return sr, err
}

func (r *Repository) GetSessionRegistration(ctx context.Context, id uuid.UUID) (SessionRegistration, error) {
	var sr SessionRegistration
	err := r.pool.QueryRow(ctx, `
		SELECT id, prospect_id, formation_id, first_name, last_name, email, phone, company, created_at
		FROM session_registrations WHERE id = $1
	`, id).Scan(
		&sr.ID, &sr.ProspectID, &sr.FormationID, &sr.FirstName, &sr.LastName, &sr.Email, &sr.Phone,
		&sr.Company, &sr.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return SessionRegistration{}, ErrTouchpointNotFound
	}
	return sr, err
}

type CreateNeedsAnalysisParams struct {
	FormationID *uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Company     string
	Position    string
	Notes       string
}

func (r *Repository) CreateNeedsAnalysisRequest(ctx context.Context, params CreateNeedsAnalysisParams) (NeedsAnalysisRequest, error) {
	var na NeedsAnalysisRequest
	err := r.pool.QueryRow(ctx, `
		INSERT INTO needs_analysis_requests (formation_id, first_name, last_name, email, phone, company, position, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, prospect_id, formation_id, first_name, last_name, email, phone, company, position, notes, created_at
	`,
		params.FormationID, params.FirstName, params.LastName, params.Email, params.Phone,
		params.Company, params.Position, params.Notes,
	).Scan(
		&na.ID, &na.ProspectID, &na.FormationID, &na.FirstName, &na.LastName, &na.Email, &na.Phone,
		&na.Company, &na.Position, &na.Notes, &na.CreatedAt,
	)
	return na, err
}

func (r *Repository) GetNeedsAnalysisRequest(ctx context.Context, id uuid.UUID) (NeedsAnalysisRequest, error) {
	var na NeedsAnalysisRequest
	err := r.pool.QueryRow(ctx, `
		SELECT id, prospect_id, formation_id, first_name, last_name, email, phone, company, position, notes, created_at
		FROM needs_analysis_requests WHERE id = $1
	`, id).Scan(
		&na.ID, &na.ProspectID, &na.FormationID, &na.FirstName, &na.LastName, &na.Email, &na.Phone,
		&na.Company, &na.Position, &na.Notes, &na.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return NeedsAnalysisRequest{}, ErrTouchpointNotFound
	}
	return na, err
}

// LinkContactRequest assigns the prospect foreign key on a contact request.
func (r *Repository) LinkContactRequest(ctx context.Context, id, prospectID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE contact_requests SET prospect_id = $2 WHERE id = $1`, id, prospectID)
	return err
}

// LinkSessionRegistration assigns the prospect foreign key on a registration.
func (r *Repository) LinkSessionRegistration(ctx context.Context, id, prospectID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE session_registrations SET prospect_id = $2 WHERE id = $1`, id, prospectID)
	return err
}

// LinkNeedsAnalysisRequest assigns the prospect foreign key on a needs-analysis request.
func (r *Repository) LinkNeedsAnalysisRequest(ctx context.Context, id, prospectID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `UPDATE needs_analysis_requests SET prospect_id = $2 WHERE id = $1`, id, prospectID)
	return err
}

// ListTouchpointCounts returns how many touchpoints of each kind reference
// the prospect. The three counts are independent and run concurrently on the
// pool.
func (r *Repository) ListTouchpointCounts(ctx context.Context, prospectID uuid.UUID) (map[string]int, error) {
	queries := map[string]string{
		"contact_request":        `SELECT COUNT(*) FROM contact_requests WHERE prospect_id = $1`,
		"session_registration":   `SELECT COUNT(*) FROM session_registrations WHERE prospect_id = $1`,
		"needs_analysis_request": `SELECT COUNT(*) FROM needs_analysis_requests WHERE prospect_id = $1`,
	}

	var mu sync.Mutex
	counts := make(map[string]int, len(queries))

	group, groupCtx := errgroup.WithContext(ctx)
	for kind, query := range queries {
		group.Go(func() error {
			var n int
			if err := r.pool.QueryRow(groupCtx, query, prospectID).Scan(&n); err != nil {
				return err
			}
			mu.Lock()
			counts[kind] = n
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return counts, nil
}
