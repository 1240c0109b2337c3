// Package events defines the domain events of the back office. Bus and
// Handler infrastructure is in platform/events.
package events

import (
	"time"

	"eprofos_admin_backend/platform/events"

	"github.com/google/uuid"
)

// Platform bus types, aliased so modules import a single events package.
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Prospect Domain Events
// =============================================================================

// ProspectCreated is published when a first touchpoint creates a new prospect.
type ProspectCreated struct {
	BaseEvent
	ProspectID uuid.UUID `json:"prospectId"`
	Email      string    `json:"email"`
	Source     string    `json:"source"`
}

func (e ProspectCreated) EventName() string { return "prospects.prospect.created" }

// TouchpointRecorded is published after a touchpoint has been ingested and
// linked to its prospect.
type TouchpointRecorded struct {
	BaseEvent
	ProspectID   uuid.UUID `json:"prospectId"`
	TouchpointID uuid.UUID `json:"touchpointId"`
	Kind         string    `json:"kind"`
}

func (e TouchpointRecorded) EventName() string { return "prospects.touchpoint.recorded" }

// ProspectsMerged is published for every duplicate merge performed by the
// dedup batch.
type ProspectsMerged struct {
	BaseEvent
	SurvivorID uuid.UUID `json:"survivorId"`
	AbsorbedID uuid.UUID `json:"absorbedId"`
	Email      string    `json:"email"`
}

func (e ProspectsMerged) EventName() string { return "prospects.prospect.merged" }

// FollowUpScheduled is published when a prospect's next follow-up date is set.
type FollowUpScheduled struct {
	BaseEvent
	ProspectID uuid.UUID `json:"prospectId"`
	DueAt      time.Time `json:"dueAt"`
}

func (e FollowUpScheduled) EventName() string { return "prospects.followup.scheduled" }
