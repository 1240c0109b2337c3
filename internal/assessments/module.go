// Package assessments provides the progress assessment bounded context module.
package assessments

import (
	"eprofos_admin_backend/internal/assessments/handler"
	"eprofos_admin_backend/internal/assessments/repository"
	"eprofos_admin_backend/internal/assessments/service"
	apphttp "eprofos_admin_backend/internal/http"
	"eprofos_admin_backend/platform/logger"
	"eprofos_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the assessments bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the assessments module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "assessments"
}

// Service returns the assessment service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts assessment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	assessmentsGroup := ctx.Protected.Group("/assessments")
	m.handler.RegisterRoutes(assessmentsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
