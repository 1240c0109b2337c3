// Package transport defines the request/response DTOs for the assessments module.
package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateAssessmentRequest struct {
	ProspectID  uuid.UUID  `json:"prospectId" validate:"required"`
	FormationID uuid.UUID  `json:"formationId" validate:"required"`
	MentorID    uuid.UUID  `json:"mentorId" validate:"required"`
	Score       *float64   `json:"score" validate:"omitempty,gte=0,lte=100"`
	Status      string     `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
	Comment     string     `json:"comment" validate:"max=5000"`
	AssessedAt  *time.Time `json:"assessedAt"`
}

type AssessmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	ProspectID  uuid.UUID  `json:"prospectId"`
	FormationID uuid.UUID  `json:"formationId"`
	MentorID    uuid.UUID  `json:"mentorId"`
	Score       *float64   `json:"score"`
	Status      string     `json:"status"`
	Comment     string     `json:"comment"`
	AssessedAt  *time.Time `json:"assessedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type AssessmentListResponse struct {
	Items []AssessmentResponse `json:"items"`
}

type StatusCountsResponse struct {
	Counts map[string]int `json:"counts"`
}

type FormationAverageResponse struct {
	FormationID uuid.UUID `json:"formationId"`
	Average     float64   `json:"average"`
	Count       int       `json:"count"`
}

type FormationAveragesResponse struct {
	Items []FormationAverageResponse `json:"items"`
}
