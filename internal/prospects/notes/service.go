// Package notes manages staff annotations on prospects.
package notes

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/internal/prospects/transport"
	"eprofos_admin_backend/platform/apperr"
	"eprofos_admin_backend/platform/logger"
)

// Known note types. Ingestion writes contact/registration/analysis notes;
// staff add manual ones.
const (
	TypeManual       = "manual"
	TypeContact      = "contact"
	TypeRegistration = "registration"
	TypeAnalysis     = "analysis"
)

// Repository defines the data access interface needed by the notes service.
type Repository interface {
	repository.NoteStore
	GetByID(ctx context.Context, id uuid.UUID) (repository.Prospect, error)
}

// Service handles prospect note business logic.
type Service struct {
	repo Repository
	log  *logger.Logger
}

// New creates a new notes service.
func New(repo Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Add attaches a note to a prospect. An empty type defaults to manual.
func (s *Service) Add(ctx context.Context, prospectID uuid.UUID, authorID *uuid.UUID, req transport.CreateNoteRequest) (transport.NoteResponse, error) {
	if _, err := s.repo.GetByID(ctx, prospectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.NoteResponse{}, apperr.NotFound("prospect not found")
		}
		return transport.NoteResponse{}, apperr.Internal("failed to get prospect", err)
	}

	noteType := req.Type
	if noteType == "" {
		noteType = TypeManual
	}

	note, err := s.repo.CreateNote(ctx, repository.CreateNoteParams{
		ProspectID: prospectID,
		AuthorID:   authorID,
		Type:       noteType,
		Body:       req.Body,
	})
	if err != nil {
		return transport.NoteResponse{}, apperr.Internal("failed to create note", err)
	}

	s.log.Info("prospect note added", "prospectId", prospectID, "noteId", note.ID, "type", noteType)
	return toNoteResponse(note), nil
}

// ListFilter narrows the note listing for one prospect.
type ListFilter struct {
	Type  string
	Since *time.Time
	Page  int
	PerPage int
}

// List returns a prospect's notes, newest first, with per-type counts.
func (s *Service) List(ctx context.Context, prospectID uuid.UUID, filter ListFilter) (transport.NotesResponse, error) {
	if _, err := s.repo.GetByID(ctx, prospectID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.NotesResponse{}, apperr.NotFound("prospect not found")
		}
		return transport.NotesResponse{}, apperr.Internal("failed to get prospect", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage < 1 || perPage > 100 {
		perPage = 50
	}

	params := repository.NoteListParams{
		ProspectID: prospectID,
		Since:      filter.Since,
		Limit:      perPage,
		Offset:     (page - 1) * perPage,
	}
	if filter.Type != "" {
		params.Type = &filter.Type
	}

	items, err := s.repo.ListNotes(ctx, params)
	if err != nil {
		return transport.NotesResponse{}, apperr.Internal("failed to list notes", err)
	}
	counts, err := s.repo.CountNotesByType(ctx, prospectID)
	if err != nil {
		return transport.NotesResponse{}, apperr.Internal("failed to count notes", err)
	}

	resp := transport.NotesResponse{
		Items:        make([]transport.NoteResponse, 0, len(items)),
		CountsByType: counts,
	}
	for _, note := range items {
		resp.Items = append(resp.Items, toNoteResponse(note))
	}
	return resp, nil
}

// Delete removes a note.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeleteNote(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return apperr.NotFound("note not found")
		}
		return apperr.Internal("failed to delete note", err)
	}
	return nil
}

func toNoteResponse(note repository.ProspectNote) transport.NoteResponse {
	return transport.NoteResponse{
		ID:         note.ID,
		ProspectID: note.ProspectID,
		AuthorID:   note.AuthorID,
		Type:       note.Type,
		Body:       note.Body,
		CreatedAt:  note.CreatedAt,
	}
}
