// Package mentors provides the mentor account bounded context module.
package mentors

import (
	"eprofos_admin_backend/internal/email"
	apphttp "eprofos_admin_backend/internal/http"
	"eprofos_admin_backend/internal/mentors/handler"
	"eprofos_admin_backend/internal/mentors/repository"
	"eprofos_admin_backend/internal/mentors/service"
	"eprofos_admin_backend/platform/config"
	"eprofos_admin_backend/platform/logger"
	"eprofos_admin_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the mentors bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the mentors module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, mailer email.Sender, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, mailer, log)
	h := handler.New(svc, val)

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "mentors"
}

// Service returns the mentor service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts mentor routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Auth endpoints are public but behind the stricter rate limiter.
	authGroup := ctx.V1.Group("/auth")
	authGroup.Use(ctx.AuthRateLimiter.RateLimit())
	m.handler.RegisterAuthRoutes(authGroup)

	// Account administration is admin-only.
	mentorsGroup := ctx.Admin.Group("/mentors")
	m.handler.RegisterAdminRoutes(mentorsGroup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
