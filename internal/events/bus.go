// Package events holds the domain events exchanged between modules. The bus
// implementation lives in platform/events and is re-exported here so modules
// only import internal/events.
package events

import (
	platformevents "eprofos_admin_backend/platform/events"
	"eprofos_admin_backend/platform/logger"
)

// InMemoryBus aliases the platform bus.
type InMemoryBus = platformevents.InMemoryBus

// NewInMemoryBus creates the in-process event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
