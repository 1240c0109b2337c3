// Package management exposes the back-office CRUD operations on prospects:
// listing, detail with interests and touchpoint counts, partial updates with
// follow-up scheduling, and hard deletion.
package management

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/events"
	"eprofos_admin_backend/internal/prospects/domain"
	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/internal/prospects/transport"
	"eprofos_admin_backend/platform/apperr"
	"eprofos_admin_backend/platform/logger"
	"eprofos_admin_backend/platform/phone"
)

// Repository defines the data access interface needed by the management service.
type Repository interface {
	repository.ProspectReader
	repository.ProspectWriter
	repository.InterestStore
	repository.MetricsReader
	ListTouchpointCounts(ctx context.Context, prospectID uuid.UUID) (map[string]int, error)
}

// ReminderScheduler enqueues a follow-up reminder task for a prospect.
// Implemented by the asynq scheduler client.
type ReminderScheduler interface {
	ScheduleFollowUpReminder(ctx context.Context, prospectID uuid.UUID, dueAt time.Time) error
}

// Service handles prospect management business logic.
type Service struct {
	repo      Repository
	scheduler ReminderScheduler
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new management service.
func New(repo Repository, scheduler ReminderScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, scheduler: scheduler, bus: bus, log: log}
}

// ListFilter narrows the prospect listing.
type ListFilter struct {
	Status    string
	Priority  string
	Source    string
	Search    string
	Page      int
	PerPage   int
	SortBy    string
	SortOrder string
}

// List returns a page of prospects matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (transport.ProspectListResponse, error) {
	params := repository.ListParams{
		Search:    filter.Search,
		SortBy:    filter.SortBy,
		SortOrder: filter.SortOrder,
	}

	if filter.Status != "" {
		status := domain.Status(filter.Status)
		if !status.IsValid() {
			return transport.ProspectListResponse{}, apperr.Validation("invalid status filter")
		}
		params.Status = &status
	}
	if filter.Priority != "" {
		priority := domain.Priority(filter.Priority)
		params.Priority = &priority
	}
	if filter.Source != "" {
		params.Source = &filter.Source
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	params.Limit = perPage
	params.Offset = (page - 1) * perPage

	prospects, total, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.ProspectListResponse{}, apperr.Internal("failed to list prospects", err)
	}

	items := make([]transport.ProspectResponse, 0, len(prospects))
	for _, p := range prospects {
		items = append(items, toProspectResponse(p, nil, nil))
	}
	return transport.ProspectListResponse{Items: items, Total: total}, nil
}

// Get returns a prospect with its interest sets loaded.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.ProspectResponse, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ProspectResponse{}, apperr.NotFound("prospect not found")
		}
		return transport.ProspectResponse{}, apperr.Internal("failed to get prospect", err)
	}

	formations, err := s.repo.ListFormationInterests(ctx, id)
	if err != nil {
		return transport.ProspectResponse{}, apperr.Internal("failed to load formation interests", err)
	}
	services, err := s.repo.ListServiceInterests(ctx, id)
	if err != nil {
		return transport.ProspectResponse{}, apperr.Internal("failed to load service interests", err)
	}

	return toProspectResponse(p, formations, services), nil
}

// GetTouchpointCounts returns per-kind touchpoint counts for a prospect.
func (s *Service) GetTouchpointCounts(ctx context.Context, id uuid.UUID) (map[string]int, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("prospect not found")
		}
		return nil, apperr.Internal("failed to get prospect", err)
	}
	counts, err := s.repo.ListTouchpointCounts(ctx, id)
	if err != nil {
		return nil, apperr.Internal("failed to count touchpoints", err)
	}
	return counts, nil
}

// Update applies a partial update. Setting nextFollowUpDate also enqueues a
// reminder task; scheduling failures are logged but do not fail the update,
// the follow-up date itself is always persisted.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateProspectRequest) (transport.ProspectResponse, error) {
	params := repository.UpdateProspectParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Company:     req.Company,
		Position:    req.Position,
		Description: req.Description,
	}

	if req.Phone != nil {
		normalized := phone.NormalizeE164(*req.Phone)
		params.Phone = &normalized
	}
	if req.Status != nil {
		status := domain.Status(*req.Status)
		if !status.IsValid() {
			return transport.ProspectResponse{}, apperr.Validation("invalid status")
		}
		params.Status = &status
	}
	if req.Priority != nil {
		priority := domain.Priority(*req.Priority)
		params.Priority = &priority
	}
	if req.NextFollowUpDate != nil {
		params.NextFollowUpDate = req.NextFollowUpDate
		params.NextFollowUpDateSet = true
	}

	p, err := s.repo.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.ProspectResponse{}, apperr.NotFound("prospect not found")
		}
		return transport.ProspectResponse{}, apperr.Internal("failed to update prospect", err)
	}

	if req.NextFollowUpDate != nil {
		dueAt := *req.NextFollowUpDate
		// Scheduler is nil when Redis is not configured; reminders degrade
		// to nothing, the follow-up date itself is still stored.
		if s.scheduler != nil {
			if err := s.scheduler.ScheduleFollowUpReminder(ctx, p.ID, dueAt); err != nil {
				s.log.Warn("failed to schedule follow-up reminder", "prospectId", p.ID, "error", err)
			}
		}
		s.bus.Publish(ctx, events.FollowUpScheduled{
			BaseEvent:  events.NewBaseEvent(),
			ProspectID: p.ID,
			DueAt:      dueAt,
		})
	}

	s.log.Info("prospect updated", "prospectId", p.ID)
	return toProspectResponse(p, nil, nil), nil
}

// Delete removes a prospect. Touchpoints keep their payload but lose the
// prospect link (SET NULL), notes and interest rows cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("prospect not found")
		}
		return apperr.Internal("failed to delete prospect", err)
	}
	s.log.Info("prospect deleted", "prospectId", id)
	return nil
}

// Metrics returns the pipeline dashboard aggregates.
func (s *Service) Metrics(ctx context.Context) (transport.MetricsResponse, error) {
	m, err := s.repo.GetMetrics(ctx)
	if err != nil {
		return transport.MetricsResponse{}, apperr.Internal("failed to compute metrics", err)
	}

	byStatus := make(map[string]int, len(m.ByStatus))
	for status, count := range m.ByStatus {
		byStatus[string(status)] = count
	}
	return transport.MetricsResponse{
		Total:           m.Total,
		ByStatus:        byStatus,
		BySource:        m.BySource,
		FollowUpsDue:    m.FollowUpsDue,
		DuplicateEmails: m.DuplicateEmails,
	}, nil
}

func toProspectResponse(p repository.Prospect, formations []repository.Formation, services []repository.Service) transport.ProspectResponse {
	resp := transport.ProspectResponse{
		ID:               p.ID,
		Email:            p.Email,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		Company:          p.Company,
		Position:         p.Position,
		Phone:            p.Phone,
		Status:           string(p.Status),
		Priority:         string(p.Priority),
		Source:           p.Source,
		Description:      p.Description,
		LastContactDate:  p.LastContactDate,
		NextFollowUpDate: p.NextFollowUpDate,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for _, f := range formations {
		resp.InterestedFormations = append(resp.InterestedFormations, transport.FormationResponse{
			ID: f.ID, Title: f.Title, Slug: f.Slug,
		})
	}
	for _, svc := range services {
		resp.InterestedServices = append(resp.InterestedServices, transport.ServiceResponse{
			ID: svc.ID, Name: svc.Name, Slug: svc.Slug,
		})
	}
	return resp
}
