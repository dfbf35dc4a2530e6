package handlers

import (
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/middleware"
	"github.com/hisab-books/ledger_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerHomeRoutes(r)

	// Register public authentication routes
	registerAuthRoutes(r, services.User, services.Token)

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerPartyRoutes(v1, services.Party, services.Balance, services.Payment)
	registerAccountRoutes(v1, services.Account, services.Balance, services.Payment)
	registerInvoiceRoutes(v1, services.Invoice)
	RegisterPaymentRoutes(v1, services.Payment)
	registerReportingRoutes(v1, services.Reporting)
	registerUserRoutes(v1, services.User)
}
