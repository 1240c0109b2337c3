// Package transport defines the request/response DTOs for the prospects module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateContactRequestRequest is the public contact form payload.
type CreateContactRequestRequest struct {
	Type        string     `json:"type" validate:"required,oneof=quote information callback other"`
	FirstName   string     `json:"firstName" validate:"required,max=100"`
	LastName    string     `json:"lastName" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       string     `json:"phone" validate:"max=30"`
	Company     string     `json:"company" validate:"max=150"`
	Message     string     `json:"message" validate:"required,max=5000"`
	ServiceID   *uuid.UUID `json:"serviceId"`
	FormationID *uuid.UUID `json:"formationId"`
}

// CreateSessionRegistrationRequest is the public session signup payload.
type CreateSessionRegistrationRequest struct {
	FormationID uuid.UUID `json:"formationId" validate:"required"`
	FirstName   string    `json:"firstName" validate:"required,max=100"`
	LastName    string    `json:"lastName" validate:"required,max=100"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone" validate:"max=30"`
	Company     string    `json:"company" validate:"max=150"`
}

// CreateNeedsAnalysisRequest is the public needs-analysis submission payload.
type CreateNeedsAnalysisRequest struct {
	FormationID *uuid.UUID `json:"formationId"`
	FirstName   string     `json:"firstName" validate:"required,max=100"`
	LastName    string     `json:"lastName" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       string     `json:"phone" validate:"max=30"`
	Company     string     `json:"company" validate:"max=150"`
	Position    string     `json:"position" validate:"max=150"`
	Notes       string     `json:"notes" validate:"max=5000"`
}

// UpdateProspectRequest carries partial prospect updates from the admin UI.
// Nil fields are left untouched.
type UpdateProspectRequest struct {
	FirstName        *string    `json:"firstName" validate:"omitempty,max=100"`
	LastName         *string    `json:"lastName" validate:"omitempty,max=100"`
	Company          *string    `json:"company" validate:"omitempty,max=150"`
	Position         *string    `json:"position" validate:"omitempty,max=150"`
	Phone            *string    `json:"phone" validate:"omitempty,max=30"`
	Status           *string    `json:"status" validate:"omitempty,oneof=lead prospect qualified negotiation customer"`
	Priority         *string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	Description      *string    `json:"description"`
	NextFollowUpDate *time.Time `json:"nextFollowUpDate"`
}

// FormationResponse is a catalog formation in API responses.
type FormationResponse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
	Slug  string    `json:"slug"`
}

// ServiceResponse is a catalog service in API responses.
type ServiceResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// ProspectResponse is the full prospect representation for the admin UI.
type ProspectResponse struct {
	ID                   uuid.UUID           `json:"id"`
	Email                string              `json:"email"`
	FirstName            string              `json:"firstName"`
	LastName             string              `json:"lastName"`
	Company              string              `json:"company"`
	Position             string              `json:"position"`
	Phone                string              `json:"phone"`
	Status               string              `json:"status"`
	Priority             string              `json:"priority"`
	Source               string              `json:"source"`
	Description          string              `json:"description"`
	LastContactDate      *time.Time          `json:"lastContactDate"`
	NextFollowUpDate     *time.Time          `json:"nextFollowUpDate"`
	InterestedFormations []FormationResponse `json:"interestedFormations,omitempty"`
	InterestedServices   []ServiceResponse   `json:"interestedServices,omitempty"`
	CreatedAt            time.Time           `json:"createdAt"`
	UpdatedAt            time.Time           `json:"updatedAt"`
}

// ProspectListResponse is a paginated prospect listing.
type ProspectListResponse struct {
	Items []ProspectResponse `json:"items"`
	Total int                `json:"total"`
}

// TouchpointResponse acknowledges an ingested touchpoint.
type TouchpointResponse struct {
	TouchpointID uuid.UUID `json:"touchpointId"`
	ProspectID   uuid.UUID `json:"prospectId"`
	Kind         string    `json:"kind"`
}

// CreateNoteRequest adds a note to a prospect.
type CreateNoteRequest struct {
	Type string `json:"type"`
	Body string `json:"body" validate:"required,max=2000"`
}

// NoteResponse is a prospect note in API responses.
type NoteResponse struct {
	ID         uuid.UUID  `json:"id"`
	ProspectID uuid.UUID  `json:"prospectId"`
	AuthorID   *uuid.UUID `json:"authorId"`
	Type       string     `json:"type"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// NotesResponse is a note listing with per-type counts.
type NotesResponse struct {
	Items        []NoteResponse `json:"items"`
	CountsByType map[string]int `json:"countsByType"`
}

// MetricsResponse is the pipeline dashboard aggregate.
type MetricsResponse struct {
	Total           int            `json:"total"`
	ByStatus        map[string]int `json:"byStatus"`
	BySource        map[string]int `json:"bySource"`
	FollowUpsDue    int            `json:"followUpsDue"`
	DuplicateEmails int            `json:"duplicateEmails"`
}

// DedupResponse reports how many merges a dedup pass performed.
type DedupResponse struct {
	MergesPerformed int `json:"mergesPerformed"`
}
