// Package service implements the teacher record lifecycle.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/email"
	"eprofos_admin_backend/internal/teachers/repository"
	"eprofos_admin_backend/internal/teachers/transport"
	"eprofos_admin_backend/platform/apperr"
	"eprofos_admin_backend/platform/logger"
)

// Repository defines the data access interface needed by the teacher service.
type Repository interface {
	Create(ctx context.Context, params repository.CreateTeacherParams) (repository.Teacher, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Teacher, error)
	List(ctx context.Context, activeOnly bool) ([]repository.Teacher, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateTeacherParams) (repository.Teacher, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (repository.Teacher, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	mail email.Sender
	log  *logger.Logger
}

func New(repo Repository, mailer email.Sender, log *logger.Logger) *Service {
	return &Service{repo: repo, mail: mailer, log: log}
}

// Create registers a teacher and sends the welcome email. Delivery failures
// are logged and swallowed.
func (s *Service) Create(ctx context.Context, req transport.CreateTeacherRequest) (transport.TeacherResponse, error) {
	teacher, err := s.repo.Create(ctx, repository.CreateTeacherParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Specialty: req.Specialty,
		Bio:       req.Bio,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			s.log.AccountEvent("teacher_create", req.Email, false, "email already registered")
			return transport.TeacherResponse{}, apperr.Conflict("email already registered")
		}
		return transport.TeacherResponse{}, apperr.Internal("failed to create teacher", err)
	}
	s.log.AccountEvent("teacher_create", teacher.Email, true, "")

	if err := s.mail.SendTeacherWelcomeEmail(ctx, teacher.Email, teacher.FirstName); err != nil {
		s.log.EmailWarn("teacher_welcome", teacher.Email, err)
	}

	return toTeacherResponse(teacher), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.TeacherResponse, error) {
	teacher, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.TeacherResponse{}, apperr.NotFound("teacher not found")
		}
		return transport.TeacherResponse{}, apperr.Internal("failed to get teacher", err)
	}
	return toTeacherResponse(teacher), nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) (transport.TeacherListResponse, error) {
	teachers, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return transport.TeacherListResponse{}, apperr.Internal("failed to list teachers", err)
	}

	resp := transport.TeacherListResponse{Items: make([]transport.TeacherResponse, 0, len(teachers))}
	for _, t := range teachers {
		resp.Items = append(resp.Items, toTeacherResponse(t))
	}
	return resp, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateTeacherRequest) (transport.TeacherResponse, error) {
	teacher, err := s.repo.Update(ctx, id, repository.UpdateTeacherParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Specialty: req.Specialty,
		Bio:       req.Bio,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.TeacherResponse{}, apperr.NotFound("teacher not found")
		}
		return transport.TeacherResponse{}, apperr.Internal("failed to update teacher", err)
	}

	s.log.Info("teacher updated", "teacherId", teacher.ID)
	return toTeacherResponse(teacher), nil
}

// SetActive toggles a teacher and notifies them by email. Delivery failures
// are logged and swallowed.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (transport.TeacherResponse, error) {
	teacher, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.TeacherResponse{}, apperr.NotFound("teacher not found")
		}
		return transport.TeacherResponse{}, apperr.Internal("failed to update teacher status", err)
	}

	if err := s.mail.SendAccountStatusEmail(ctx, teacher.Email, teacher.FirstName, active); err != nil {
		s.log.EmailWarn("account_status", teacher.Email, err)
	}

	s.log.AccountEvent("teacher_set_active", teacher.Email, true, "")
	return toTeacherResponse(teacher), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("teacher not found")
		}
		return apperr.Internal("failed to delete teacher", err)
	}
	s.log.Info("teacher deleted", "teacherId", id)
	return nil
}

func toTeacherResponse(t repository.Teacher) transport.TeacherResponse {
	return transport.TeacherResponse{
		ID:        t.ID,
		Email:     t.Email,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Specialty: t.Specialty,
		Bio:       t.Bio,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
