package repository

import (
	"context"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================

// ProspectReader provides read-only access to prospect data.
type ProspectReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Prospect, error)
	GetByEmail(ctx context.Context, email string) (Prospect, error)
	List(ctx context.Context, params ListParams) ([]Prospect, int, error)
}

// ProspectWriter provides write operations for prospect management.
type ProspectWriter interface {
	Create(ctx context.Context, params CreateProspectParams) (Prospect, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateProspectParams) (Prospect, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DuplicateScanner finds and consolidates prospects sharing an email.
type DuplicateScanner interface {
	ListDuplicateEmails(ctx context.Context) ([]string, error)
	ListByEmail(ctx context.Context, email string) ([]Prospect, error)
	ExecuteMerge(ctx context.Context, survivorID, absorbedID uuid.UUID, params UpdateProspectParams) error
}

// TouchpointStore creates and links touchpoint records.
type TouchpointStore interface {
	CreateContactRequest(ctx context.Context, params CreateContactRequestParams) (ContactRequest, error)
	GetContactRequest(ctx context.Context, id uuid.UUID) (ContactRequest, error)
	CreateSessionRegistration(ctx context.Context, params CreateSessionRegistrationParams) (SessionRegistration, error)
	GetSessionRegistration(ctx context.Context, id uuid.UUID) (SessionRegistration, error)
	CreateNeedsAnalysisRequest(ctx context.Context, params CreateNeedsAnalysisParams) (NeedsAnalysisRequest, error)
	GetNeedsAnalysisRequest(ctx context.Context, id uuid.UUID) (NeedsAnalysisRequest, error)
	LinkContactRequest(ctx context.Context, id, prospectID uuid.UUID) error
	LinkSessionRegistration(ctx context.Context, id, prospectID uuid.UUID) error
	LinkNeedsAnalysisRequest(ctx context.Context, id, prospectID uuid.UUID) error
	ListTouchpointCounts(ctx context.Context, prospectID uuid.UUID) (map[string]int, error)
}

// InterestStore manages the prospect interest sets against the catalog.
type InterestStore interface {
	GetFormation(ctx context.Context, id uuid.UUID) (Formation, error)
	GetService(ctx context.Context, id uuid.UUID) (Service, error)
	AddFormationInterest(ctx context.Context, prospectID, formationID uuid.UUID) error
	AddServiceInterest(ctx context.Context, prospectID, serviceID uuid.UUID) error
	ListFormationInterests(ctx context.Context, prospectID uuid.UUID) ([]Formation, error)
	ListServiceInterests(ctx context.Context, prospectID uuid.UUID) ([]Service, error)
}

// NoteStore manages prospect notes.
type NoteStore interface {
	CreateNote(ctx context.Context, params CreateNoteParams) (ProspectNote, error)
	ListNotes(ctx context.Context, params NoteListParams) ([]ProspectNote, error)
	CountNotesByType(ctx context.Context, prospectID uuid.UUID) (map[string]int, error)
	DeleteNote(ctx context.Context, id uuid.UUID) error
}

// MetricsReader provides access to prospect pipeline aggregates.
type MetricsReader interface {
	GetMetrics(ctx context.Context) (ProspectMetrics, error)
}

// =====================================
// Composite Interface
// =====================================

// ProspectsRepository defines the complete interface for prospect data operations.
// Composed of smaller, focused interfaces for better testability and flexibility.
type ProspectsRepository interface {
	ProspectReader
	ProspectWriter
	DuplicateScanner
	TouchpointStore
	InterestStore
	NoteStore
	MetricsReader
}

// Ensure Repository implements ProspectsRepository
var _ ProspectsRepository = (*Repository)(nil)
