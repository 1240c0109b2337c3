// Package prospects provides the prospect pipeline bounded context module.
// This file defines the module that encapsulates all prospects setup and
// route registration.
package prospects

import (
	"eprofos_admin_backend/internal/events"
	apphttp "eprofos_admin_backend/internal/http"
	"eprofos_admin_backend/internal/prospects/dedup"
	"eprofos_admin_backend/internal/prospects/handler"
	"eprofos_admin_backend/internal/prospects/intake"
	"eprofos_admin_backend/internal/prospects/management"
	"eprofos_admin_backend/internal/prospects/notes"
	"eprofos_admin_backend/internal/prospects/repository"
	"eprofos_admin_backend/platform/logger"
	"eprofos_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the prospects bounded context module implementing http.Module.
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	intake        *intake.Service
	management    *management.Service
	dedup         *dedup.Service
	notes         *notes.Service
	log           *logger.Logger
}

// NewModule creates and initializes the prospects module with all its dependencies.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, scheduler management.ReminderScheduler, val *validator.Validator, log *logger.Logger) *Module {
	// Create shared repository
	repo := repository.New(pool)

	// Create focused services (vertical slices)
	intakeSvc := intake.New(repo, eventBus, log)
	mgmtSvc := management.New(repo, scheduler, eventBus, log)
	dedupSvc := dedup.New(repo, eventBus, log)
	notesSvc := notes.New(repo, log)

	h := handler.New(mgmtSvc, notesSvc, dedupSvc, val)
	publicHandler := handler.NewPublic(intakeSvc, val)

	return &Module{
		handler:       h,
		publicHandler: publicHandler,
		intake:        intakeSvc,
		management:    mgmtSvc,
		dedup:         dedupSvc,
		notes:         notesSvc,
		log:           log,
	}
}

// RegisterHandlers subscribes the module's event handlers on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	RegisterMetricsHandlers(bus, m.log)
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "prospects"
}

// DedupService returns the duplicate merge service for external use
// (the prospect-dedup command runs it without HTTP).
func (m *Module) DedupService() *dedup.Service {
	return m.dedup
}

// IntakeService returns the touchpoint ingestion service for external use.
func (m *Module) IntakeService() *intake.Service {
	return m.intake
}

// RegisterRoutes mounts prospect routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Public website forms feed the pipeline without authentication.
	m.publicHandler.RegisterRoutes(ctx.V1)

	// Back-office management requires authentication.
	prospectsGroup := ctx.Protected.Group("/prospects")
	m.handler.RegisterRoutes(prospectsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
