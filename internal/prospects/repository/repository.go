package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eprofos_admin_backend/internal/prospects/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("prospect not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Prospect struct {
	ID               uuid.UUID
	Email            string
	FirstName        string
	LastName         string
	Company          string
	Position         string
	Phone            string
	Status           domain.Status
	Priority         domain.Priority
	Source           string
	Description      string
	LastContactDate  *time.Time
	NextFollowUpDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const prospectColumns = `id, email, first_name, last_name, company, position, phone, status, priority, source,
	description, last_contact_date, next_follow_up_date, created_at, updated_at`

func scanProspect(row pgx.Row) (Prospect, error) {
	var p Prospect
	err := row.Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Company, &p.Position, &p.Phone,
		&p.Status, &p.Priority, &p.Source,
		&p.Description, &p.LastContactDate, &p.NextFollowUpDate, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

type CreateProspectParams struct {
	Email       string
	FirstName   string
	LastName    string
	Company     string
	Position    string
	Phone       string
	Status      domain.Status
	Priority    domain.Priority
	Source      string
	Description string
}

func (r *Repository) Create(ctx context.Context, params CreateProspectParams) (Prospect, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO prospects (email, first_name, last_name, company, position, phone, status, priority, source, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+prospectColumns,
		params.Email, params.FirstName, params.LastName, params.Company, params.Position, params.Phone,
		params.Status, params.Priority, params.Source, params.Description,
	)
	return scanProspect(row)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Prospect, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+prospectColumns+` FROM prospects WHERE id = $1`, id)
	p, err := scanProspect(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Prospect{}, ErrNotFound
	}
	return p, err
}

// GetByEmail returns the oldest prospect with the exact email. Matching is
// deliberately case-sensitive with no trimming; the underlying store matches
// byte-for-byte.
func (r *Repository) GetByEmail(ctx context.Context, email string) (Prospect, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+prospectColumns+`
		FROM prospects WHERE email = $1
		ORDER BY created_at ASC
		LIMIT 1
	`, email)
	p, err := scanProspect(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Prospect{}, ErrNotFound
	}
	return p, err
}

type UpdateProspectParams struct {
	FirstName           *string
	LastName            *string
	Company             *string
	Position            *string
	Phone               *string
	Status              *domain.Status
	Priority            *domain.Priority
	Source              *string
	Description         *string
	LastContactDate     *time.Time
	LastContactDateSet  bool
	NextFollowUpDate    *time.Time
	NextFollowUpDateSet bool
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateProspectParams) (Prospect, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.FirstName != nil, "first_name", deref(params.FirstName)},
		{params.LastName != nil, "last_name", deref(params.LastName)},
		{params.Company != nil, "company", deref(params.Company)},
		{params.Position != nil, "position", deref(params.Position)},
		{params.Phone != nil, "phone", deref(params.Phone)},
		{params.Status != nil, "status", derefStatus(params.Status)},
		{params.Priority != nil, "priority", derefPriority(params.Priority)},
		{params.Source != nil, "source", deref(params.Source)},
		{params.Description != nil, "description", deref(params.Description)},
		{params.LastContactDateSet, "last_contact_date", params.LastContactDate},
		{params.NextFollowUpDateSet, "next_follow_up_date", params.NextFollowUpDate},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE prospects SET %s
		WHERE id = $%d
		RETURNING `+prospectColumns,
		strings.Join(setClauses, ", "), argIdx)

	p, err := scanProspect(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Prospect{}, ErrNotFound
	}
	return p, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM prospects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ListParams struct {
	Status   *domain.Status
	Priority *domain.Priority
	Source   *string
	Search   string
	Offset   int
	Limit    int
	SortBy   string
	SortOrder string
}

func (r *Repository) List(ctx context.Context, params ListParams) ([]Prospect, int, error) {
	whereClause, args, argIdx := buildProspectListWhere(params)

	var total int
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM prospects WHERE %s", whereClause)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	sortColumn := mapProspectSortColumn(params.SortBy)
	sortOrder := "DESC"
	if params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	args = append(args, params.Limit, params.Offset)

	query := fmt.Sprintf(`
		SELECT `+prospectColumns+`
		FROM prospects
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, sortColumn, sortOrder, argIdx, argIdx+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	prospects := make([]Prospect, 0)
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, 0, err
		}
		prospects = append(prospects, p)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return prospects, total, nil
}

func buildProspectListWhere(params ListParams) (string, []interface{}, int) {
	whereClauses := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Priority != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("priority = $%d", argIdx))
		args = append(args, *params.Priority)
		argIdx++
	}
	if params.Source != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("source = $%d", argIdx))
		args = append(args, *params.Source)
		argIdx++
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, pattern)
		argIdx++
	}

	return strings.Join(whereClauses, " AND "), args, argIdx
}

func mapProspectSortColumn(sortBy string) string {
	switch sortBy {
	case "email":
		return "email"
	case "lastName":
		return "last_name"
	case "company":
		return "company"
	case "status":
		return "status"
	case "lastContactDate":
		return "last_contact_date"
	case "nextFollowUpDate":
		return "next_follow_up_date"
	default:
		return "created_at"
	}
}

// ListDuplicateEmails returns every email shared by more than one prospect.
func (r *Repository) ListDuplicateEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT email FROM prospects
		GROUP BY email
		HAVING COUNT(*) > 1
		ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make([]string, 0)
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

// ListByEmail returns all prospects with the exact email, oldest first. The
// first element is the merge survivor.
func (r *Repository) ListByEmail(ctx context.Context, email string) ([]Prospect, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+prospectColumns+`
		FROM prospects WHERE email = $1
		ORDER BY created_at ASC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prospects := make([]Prospect, 0)
	for rows.Next() {
		p, err := scanProspect(rows)
		if err != nil {
			return nil, err
		}
		prospects = append(prospects, p)
	}
	return prospects, rows.Err()
}

// mergeRepointStatements moves every row referencing the absorbed prospect
// onto the survivor. Every table with a prospect_id foreign key must appear
// here: the final DELETE cascades, so an unlisted table loses its rows.
var mergeRepointStatements = []string{
	`UPDATE contact_requests SET prospect_id = $1 WHERE prospect_id = $2`,
	`UPDATE session_registrations SET prospect_id = $1 WHERE prospect_id = $2`,
	`UPDATE needs_analysis_requests SET prospect_id = $1 WHERE prospect_id = $2`,
	`UPDATE prospect_notes SET prospect_id = $1 WHERE prospect_id = $2`,
	`UPDATE progress_assessments SET prospect_id = $1 WHERE prospect_id = $2`,
}

// ExecuteMerge applies a single duplicate merge in one transaction: update the
// survivor's fields, repoint the absorbed prospect's touchpoints and interest
// rows, then delete the absorbed prospect. Each merge commits independently of
// the rest of the batch.
func (r *Repository) ExecuteMerge(ctx context.Context, survivorID, absorbedID uuid.UUID, params UpdateProspectParams) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := r.updateInTx(ctx, tx, survivorID, params); err != nil {
		return err
	}

	for _, stmt := range mergeRepointStatements {
		if _, err := tx.Exec(ctx, stmt, survivorID, absorbedID); err != nil {
			return err
		}
	}

	// Union the interest sets; rows already present on the survivor are skipped.
	interestStatements := []string{
		`INSERT INTO prospect_formations (prospect_id, formation_id)
		 SELECT $1, formation_id FROM prospect_formations WHERE prospect_id = $2
		 ON CONFLICT DO NOTHING`,
		`INSERT INTO prospect_services (prospect_id, service_id)
		 SELECT $1, service_id FROM prospect_services WHERE prospect_id = $2
		 ON CONFLICT DO NOTHING`,
	}
	for _, stmt := range interestStatements {
		if _, err := tx.Exec(ctx, stmt, survivorID, absorbedID); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM prospects WHERE id = $1`, absorbedID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *Repository) updateInTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, params UpdateProspectParams) (Prospect, error) {
	setClauses := []string{"updated_at = now()"}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.FirstName != nil, "first_name", deref(params.FirstName)},
		{params.LastName != nil, "last_name", deref(params.LastName)},
		{params.Company != nil, "company", deref(params.Company)},
		{params.Position != nil, "position", deref(params.Position)},
		{params.Phone != nil, "phone", deref(params.Phone)},
		{params.Status != nil, "status", derefStatus(params.Status)},
		{params.Priority != nil, "priority", derefPriority(params.Priority)},
		{params.Source != nil, "source", deref(params.Source)},
		{params.Description != nil, "description", deref(params.Description)},
		{params.LastContactDateSet, "last_contact_date", params.LastContactDate},
		{params.NextFollowUpDateSet, "next_follow_up_date", params.NextFollowUpDate},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE prospects SET %s WHERE id = $%d RETURNING `+prospectColumns,
		strings.Join(setClauses, ", "), argIdx)

	p, err := scanProspect(tx.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Prospect{}, ErrNotFound
	}
	return p, err
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefStatus(value *domain.Status) domain.Status {
	if value == nil {
		return ""
	}
	return *value
}

func derefPriority(value *domain.Priority) domain.Priority {
	if value == nil {
		return ""
	}
	return *value
}
