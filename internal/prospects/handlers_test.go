package prospects

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"eprofos_admin_backend/internal/events"
	"eprofos_admin_backend/platform/logger"
	"eprofos_admin_backend/platform/metrics"
)

// The domain counters are fed exclusively through the event bus, so a bus
// without registered handlers would leave them frozen.
func TestRegisterMetricsHandlersCountsProspectEvents(t *testing.T) {
	log := logger.New("test")
	bus := events.NewInMemoryBus(log)
	RegisterMetricsHandlers(bus, log)

	const kind = "contact_request"
	createdBefore := testutil.ToFloat64(metrics.ProspectsCreated)
	touchpointsBefore := testutil.ToFloat64(metrics.TouchpointsRecorded.WithLabelValues(kind))
	mergesBefore := testutil.ToFloat64(metrics.ProspectMerges)
	followUpsBefore := testutil.ToFloat64(metrics.FollowUpsScheduled)

	ctx := context.Background()
	published := []events.Event{
		events.ProspectCreated{BaseEvent: events.NewBaseEvent(), ProspectID: uuid.New(), Email: "jean@example.fr", Source: "website"},
		events.TouchpointRecorded{BaseEvent: events.NewBaseEvent(), ProspectID: uuid.New(), TouchpointID: uuid.New(), Kind: kind},
		events.ProspectsMerged{BaseEvent: events.NewBaseEvent(), SurvivorID: uuid.New(), AbsorbedID: uuid.New(), Email: "jean@example.fr"},
		events.FollowUpScheduled{BaseEvent: events.NewBaseEvent(), ProspectID: uuid.New(), DueAt: time.Now().Add(24 * time.Hour)},
	}
	for _, event := range published {
		if err := bus.PublishSync(ctx, event); err != nil {
			t.Fatalf("publish %s: %v", event.EventName(), err)
		}
	}

	if got := testutil.ToFloat64(metrics.ProspectsCreated) - createdBefore; got != 1 {
		t.Fatalf("ProspectsCreated delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.TouchpointsRecorded.WithLabelValues(kind)) - touchpointsBefore; got != 1 {
		t.Fatalf("TouchpointsRecorded[%s] delta = %v, want 1", kind, got)
	}
	if got := testutil.ToFloat64(metrics.ProspectMerges) - mergesBefore; got != 1 {
		t.Fatalf("ProspectMerges delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.FollowUpsScheduled) - followUpsBefore; got != 1 {
		t.Fatalf("FollowUpsScheduled delta = %v, want 1", got)
	}
}
