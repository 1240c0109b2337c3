// Package documenttypes provides the document type configuration bounded
// context module.
package documenttypes

import (
	"eprofos_admin_backend/internal/documenttypes/handler"
	"eprofos_admin_backend/internal/documenttypes/repository"
	"eprofos_admin_backend/internal/documenttypes/service"
	apphttp "eprofos_admin_backend/internal/http"
	"eprofos_admin_backend/platform/logger"
	"eprofos_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the documenttypes bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the documenttypes module with all its dependencies.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "documenttypes"
}

// Service returns the document type service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts document type routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	typesGroup := ctx.Admin.Group("/document-types")
	m.handler.RegisterRoutes(typesGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
