// Package service implements progress assessment reads and writes.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/assessments/repository"
	"eprofos_admin_backend/internal/assessments/transport"
	"eprofos_admin_backend/platform/apperr"
	"eprofos_admin_backend/platform/logger"
)

// Repository defines the data access interface needed by the assessments service.
type Repository interface {
	Create(ctx context.Context, params repository.CreateAssessmentParams) (repository.Assessment, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Assessment, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Assessment, error)
	CountByStatus(ctx context.Context) (map[string]int, error)
	AverageScoreByFormation(ctx context.Context) ([]repository.FormationAverage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	log  *logger.Logger
}

func New(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) Create(ctx context.Context, req transport.CreateAssessmentRequest) (transport.AssessmentResponse, error) {
	status := req.Status
	if status == "" {
		status = repository.StatusPending
	}

	a, err := s.repo.Create(ctx, repository.CreateAssessmentParams{
		ProspectID:  req.ProspectID,
		FormationID: req.FormationID,
		MentorID:    req.MentorID,
		Score:       req.Score,
		Status:      status,
		Comment:     req.Comment,
		AssessedAt:  req.AssessedAt,
	})
	if err != nil {
		return transport.AssessmentResponse{}, apperr.Internal("failed to create assessment", err)
	}

	s.log.Info("assessment created", "assessmentId", a.ID, "prospectId", a.ProspectID)
	return toAssessmentResponse(a), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.AssessmentResponse, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.AssessmentResponse{}, apperr.NotFound("assessment not found")
		}
		return transport.AssessmentResponse{}, apperr.Internal("failed to get assessment", err)
	}
	return toAssessmentResponse(a), nil
}

// ListFilter narrows the assessment listing.
type ListFilter struct {
	MentorID    *uuid.UUID
	FormationID *uuid.UUID
	Status      string
	From        *time.Time
	To          *time.Time
	Page        int
	PerPage     int
}

func (s *Service) List(ctx context.Context, filter ListFilter) (transport.AssessmentListResponse, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}

	params := repository.ListParams{
		MentorID:    filter.MentorID,
		FormationID: filter.FormationID,
		From:        filter.From,
		To:          filter.To,
		Limit:       perPage,
		Offset:      (page - 1) * perPage,
	}
	if filter.Status != "" {
		params.Status = &filter.Status
	}

	assessments, err := s.repo.List(ctx, params)
	if err != nil {
		return transport.AssessmentListResponse{}, apperr.Internal("failed to list assessments", err)
	}

	resp := transport.AssessmentListResponse{Items: make([]transport.AssessmentResponse, 0, len(assessments))}
	for _, a := range assessments {
		resp.Items = append(resp.Items, toAssessmentResponse(a))
	}
	return resp, nil
}

func (s *Service) CountByStatus(ctx context.Context) (transport.StatusCountsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return transport.StatusCountsResponse{}, apperr.Internal("failed to count assessments", err)
	}
	return transport.StatusCountsResponse{Counts: counts}, nil
}

func (s *Service) AverageScoreByFormation(ctx context.Context) (transport.FormationAveragesResponse, error) {
	averages, err := s.repo.AverageScoreByFormation(ctx)
	if err != nil {
		return transport.FormationAveragesResponse{}, apperr.Internal("failed to compute averages", err)
	}

	resp := transport.FormationAveragesResponse{Items: make([]transport.FormationAverageResponse, 0, len(averages))}
	for _, fa := range averages {
		resp.Items = append(resp.Items, transport.FormationAverageResponse{
			FormationID: fa.FormationID,
			Average:     fa.Average,
			Count:       fa.Count,
		})
	}
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("assessment not found")
		}
		return apperr.Internal("failed to delete assessment", err)
	}
	s.log.Info("assessment deleted", "assessmentId", id)
	return nil
}

func toAssessmentResponse(a repository.Assessment) transport.AssessmentResponse {
	return transport.AssessmentResponse{
		ID:          a.ID,
		ProspectID:  a.ProspectID,
		FormationID: a.FormationID,
		MentorID:    a.MentorID,
		Score:       a.Score,
		Status:      a.Status,
		Comment:     a.Comment,
		AssessedAt:  a.AssessedAt,
		CreatedAt:   a.CreatedAt,
	}
}
