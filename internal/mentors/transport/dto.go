// Package transport defines the request/response DTOs for the mentors module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

// CreateMentorRequest creates a mentor account. The temporary password is
// generated server-side and delivered by email.
type CreateMentorRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=mentor admin"`
}

// SignInRequest authenticates a mentor.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignInResponse carries the issued access token.
type SignInResponse struct {
	AccessToken string         `json:"accessToken"`
	Mentor      MentorResponse `json:"mentor"`
}

// VerifyEmailRequest confirms an email address with a one-shot token.
type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

// ResendVerificationRequest asks for a fresh verification link.
type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=12"`
}

// MentorResponse is the mentor representation for the admin UI.
type MentorResponse struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Role          string    `json:"role"`
	Active        bool      `json:"active"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MentorListResponse is the mentor listing.
type MentorListResponse struct {
	Items []MentorResponse `json:"items"`
}
