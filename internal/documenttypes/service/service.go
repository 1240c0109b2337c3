// Package service implements document type configuration: validation plus
// slug and code generation.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/documenttypes/repository"
	"eprofos_admin_backend/internal/documenttypes/slug"
	"eprofos_admin_backend/internal/documenttypes/transport"
	"eprofos_admin_backend/platform/apperr"
	"eprofos_admin_backend/platform/logger"
)

// Repository defines the data access interface needed by the document type service.
type Repository interface {
	Create(ctx context.Context, params repository.CreateDocumentTypeParams) (repository.DocumentType, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.DocumentType, error)
	List(ctx context.Context, activeOnly bool) ([]repository.DocumentType, error)
	CountCodesWithPrefix(ctx context.Context, prefix string) (int, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateDocumentTypeParams) (repository.DocumentType, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (repository.DocumentType, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	log  *logger.Logger
}

func New(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create validates the name, derives slug and code, and stores the type.
// Codes are "<initials>-<zero-padded sequence>", e.g. "ADP-007".
func (s *Service) Create(ctx context.Context, req transport.CreateDocumentTypeRequest) (transport.DocumentTypeResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return transport.DocumentTypeResponse{}, apperr.Validation("name is required")
	}

	slugValue := req.Slug
	if slugValue == "" {
		slugValue = slug.Make(name)
	}
	if slugValue == "" {
		return transport.DocumentTypeResponse{}, apperr.Validation("name yields an empty slug")
	}

	prefix := slug.CodePrefix(name)
	seq, err := s.repo.CountCodesWithPrefix(ctx, prefix)
	if err != nil {
		return transport.DocumentTypeResponse{}, apperr.Internal("failed to compute code sequence", err)
	}
	code := fmt.Sprintf("%s-%03d", prefix, seq+1)

	dt, err := s.repo.Create(ctx, repository.CreateDocumentTypeParams{
		Name:        name,
		Code:        code,
		Slug:        slugValue,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return transport.DocumentTypeResponse{}, apperr.Conflict("document type code or slug already exists")
		}
		return transport.DocumentTypeResponse{}, apperr.Internal("failed to create document type", err)
	}

	s.log.Info("document type created", "documentTypeId", dt.ID, "code", dt.Code)
	return toResponse(dt), nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (transport.DocumentTypeResponse, error) {
	dt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.DocumentTypeResponse{}, apperr.NotFound("document type not found")
		}
		return transport.DocumentTypeResponse{}, apperr.Internal("failed to get document type", err)
	}
	return toResponse(dt), nil
}

func (s *Service) List(ctx context.Context, activeOnly bool) (transport.DocumentTypeListResponse, error) {
	types, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return transport.DocumentTypeListResponse{}, apperr.Internal("failed to list document types", err)
	}

	resp := transport.DocumentTypeListResponse{Items: make([]transport.DocumentTypeResponse, 0, len(types))}
	for _, dt := range types {
		resp.Items = append(resp.Items, toResponse(dt))
	}
	return resp, nil
}

// Update changes name, slug or description. Renaming regenerates the slug
// unless an explicit slug is supplied; the code is immutable once issued.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateDocumentTypeRequest) (transport.DocumentTypeResponse, error) {
	params := repository.UpdateDocumentTypeParams{
		Description: req.Description,
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return transport.DocumentTypeResponse{}, apperr.Validation("name is required")
		}
		params.Name = &name
		if req.Slug == nil {
			generated := slug.Make(name)
			params.Slug = &generated
		}
	}
	if req.Slug != nil {
		params.Slug = req.Slug
	}

	dt, err := s.repo.Update(ctx, id, params)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.DocumentTypeResponse{}, apperr.NotFound("document type not found")
		case errors.Is(err, repository.ErrDuplicate):
			return transport.DocumentTypeResponse{}, apperr.Conflict("document type code or slug already exists")
		}
		return transport.DocumentTypeResponse{}, apperr.Internal("failed to update document type", err)
	}

	s.log.Info("document type updated", "documentTypeId", dt.ID)
	return toResponse(dt), nil
}

func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool) (transport.DocumentTypeResponse, error) {
	dt, err := s.repo.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.DocumentTypeResponse{}, apperr.NotFound("document type not found")
		}
		return transport.DocumentTypeResponse{}, apperr.Internal("failed to update document type status", err)
	}
	return toResponse(dt), nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("document type not found")
		}
		return apperr.Internal("failed to delete document type", err)
	}
	return nil
}

func toResponse(dt repository.DocumentType) transport.DocumentTypeResponse {
	return transport.DocumentTypeResponse{
		ID:          dt.ID,
		Name:        dt.Name,
		Code:        dt.Code,
		Slug:        dt.Slug,
		Description: dt.Description,
		Active:      dt.Active,
		CreatedAt:   dt.CreatedAt,
		UpdatedAt:   dt.UpdatedAt,
	}
}
