// Package transport defines the request/response DTOs for the teachers module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateTeacherRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Specialty string `json:"specialty" validate:"max=150"`
	Bio       string `json:"bio" validate:"max=5000"`
}

type UpdateTeacherRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Specialty *string `json:"specialty" validate:"omitempty,max=150"`
	Bio       *string `json:"bio" validate:"omitempty,max=5000"`
}

type TeacherResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Specialty string    `json:"specialty"`
	Bio       string    `json:"bio"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TeacherListResponse struct {
	Items []TeacherResponse `json:"items"`
}
