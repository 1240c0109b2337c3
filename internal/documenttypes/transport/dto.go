// Package transport defines the request/response DTOs for the documenttypes module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateDocumentTypeRequest creates a document type. Code and slug are
// generated from the name; a provided slug overrides the generated one.
type CreateDocumentTypeRequest struct {
	Name        string `json:"name" validate:"required,max=150"`
	Slug        string `json:"slug" validate:"omitempty,max=150"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateDocumentTypeRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=150"`
	Slug        *string `json:"slug" validate:"omitempty,max=150"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

type DocumentTypeResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type DocumentTypeListResponse struct {
	Items []DocumentTypeResponse `json:"items"`
}
