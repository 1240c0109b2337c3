// Package teachers provides the teacher administration bounded context module.
package teachers

import (
	"eprofos_admin_backend/internal/email"
	apphttp "eprofos_admin_backend/internal/http"
	"eprofos_admin_backend/internal/teachers/handler"
	"eprofos_admin_backend/internal/teachers/repository"
	"eprofos_admin_backend/internal/teachers/service"
	"eprofos_admin_backend/platform/logger"
	"eprofos_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the teachers bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the teachers module with all its dependencies.
func NewModule(pool *pgxpool.Pool, mailer email.Sender, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, mailer, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "teachers"
}

// Service returns the teacher service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts teacher routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	teachersGroup := ctx.Admin.Group("/teachers")
	m.handler.RegisterRoutes(teachersGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
