package prospects

import (
	"context"

	"eprofos_admin_backend/internal/events"
	"eprofos_admin_backend/platform/logger"
	"eprofos_admin_backend/platform/metrics"
)

// metricsSubscriber feeds the Prometheus domain counters from the prospect
// events. Instrumentation lives here instead of in the services, so every
// publisher is counted regardless of which binary it runs in.
type metricsSubscriber struct {
	log *logger.Logger
}

// Handle routes events to the appropriate counter.
func (s *metricsSubscriber) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.ProspectCreated:
		metrics.ProspectsCreated.Inc()
	case events.TouchpointRecorded:
		metrics.TouchpointsRecorded.WithLabelValues(e.Kind).Inc()
	case events.ProspectsMerged:
		metrics.ProspectMerges.Inc()
	case events.FollowUpScheduled:
		metrics.FollowUpsScheduled.Inc()
	default:
		s.log.Warn("unhandled prospect event", "event", event.EventName())
	}
	return nil
}

// RegisterMetricsHandlers subscribes the domain counters to the prospect
// events. Every binary that publishes prospect events calls this at startup.
func RegisterMetricsHandlers(bus *events.InMemoryBus, log *logger.Logger) {
	sub := &metricsSubscriber{log: log}
	bus.Subscribe(events.ProspectCreated{}.EventName(), sub)
	bus.Subscribe(events.TouchpointRecorded{}.EventName(), sub)
	bus.Subscribe(events.ProspectsMerged{}.EventName(), sub)
	bus.Subscribe(events.FollowUpScheduled{}.EventName(), sub)
	log.Info("prospect event handlers registered")
}
