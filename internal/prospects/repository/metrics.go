package repository

import (
	"context"

	"eprofos_admin_backend/internal/prospects/domain"
)

// ProspectMetrics aggregates pipeline KPIs for the admin dashboard.
type ProspectMetrics struct {
	Total          int
	ByStatus       map[domain.Status]int
	BySource       map[string]int
	FollowUpsDue   int
	DuplicateEmails int
}

const metricsByStatusQuery = `
	SELECT status, COUNT(*)
	FROM prospects
	GROUP BY status`

const metricsBySourceQuery = `
	SELECT source, COUNT(*)
	FROM prospects
	GROUP BY source`

const metricsFollowUpsDueQuery = `
	SELECT COUNT(*)
	FROM prospects
	WHERE next_follow_up_date IS NOT NULL AND next_follow_up_date <= now()`

const metricsDuplicateEmailsQuery = `
	SELECT COUNT(*) FROM (
		SELECT email FROM prospects GROUP BY email HAVING COUNT(*) > 1
	) dupes`

// GetMetrics computes the prospect pipeline aggregates in one call.
func (r *Repository) GetMetrics(ctx context.Context) (ProspectMetrics, error) {
	metrics := ProspectMetrics{
		ByStatus: make(map[domain.Status]int),
		BySource: make(map[string]int),
	}

	rows, err := r.pool.Query(ctx, metricsByStatusQuery)
	if err != nil {
		return ProspectMetrics{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var status domain.Status
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return ProspectMetrics{}, err
		}
		metrics.ByStatus[status] = n
		metrics.Total += n
	}
	if rows.Err() != nil {
		return ProspectMetrics{}, rows.Err()
	}

	sourceRows, err := r.pool.Query(ctx, metricsBySourceQuery)
	if err != nil {
		return ProspectMetrics{}, err
	}
	defer sourceRows.Close()
	for sourceRows.Next() {
		var source string
		var n int
		if err := sourceRows.Scan(&source, &n); err != nil {
			return ProspectMetrics{}, err
		}
		metrics.BySource[source] = n
	}
	if sourceRows.Err() != nil {
		return ProspectMetrics{}, sourceRows.Err()
	}

	if err := r.pool.QueryRow(ctx, metricsFollowUpsDueQuery).Scan(&metrics.FollowUpsDue); err != nil {
		return ProspectMetrics{}, err
	}
	if err := r.pool.QueryRow(ctx, metricsDuplicateEmailsQuery).Scan(&metrics.DuplicateEmails); err != nil {
		return ProspectMetrics{}, err
	}

	return metrics, nil
}
