package router

import (
	"loyalty_club_backend/internal/handlers"
	"loyalty_club_backend/internal/middleware"
	"loyalty_club_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Dependencies are the services the routes are built on.
type Dependencies struct {
	Gate          *services.SessionGate
	AuthService   services.AuthService
	ClientService services.ClientService
}

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, deps Dependencies) {
	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(deps.AuthService)
	clientHandler := handlers.NewClientHandler(deps.ClientService)
	viewHandler := handlers.NewViewHandler(deps.Gate, deps.ClientService)

	SetupViewRoutes(engine, deps.Gate, viewHandler)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware(deps.AuthService))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupClientRoutes(authenticated, clientHandler)
	}
}
