package router

import (
	"loyalty_club_backend/internal/handlers"
	"loyalty_club_backend/internal/middleware"
	"loyalty_club_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupViewRoutes sets up the page routes. The guard redirects before any
// handler runs.
func SetupViewRoutes(engine *gin.Engine, gate *services.SessionGate, viewHandler *handlers.ViewHandler) {
	views := engine.Group("")
	views.Use(middleware.ViewGuard(gate))
	{
		views.GET(services.ViewRoot, viewHandler.Root)
		views.GET(services.ViewLogin, viewHandler.Login)
		views.GET(services.ViewClients, viewHandler.Clients)
	}
}

// SetupPublicAuthRoutes sets up the auth routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/login", authHandler.LoginUser)
}

// SetupAuthenticatedAuthRoutes sets up the auth routes that need a session.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/logout", authHandler.LogoutUser)
	group.GET("/me", authHandler.GetCurrentUser)
}

// SetupClientRoutes sets up the client routes.
func SetupClientRoutes(authenticatedGroup *gin.RouterGroup, clientHandler *handlers.ClientHandler) {
	clientRoutes := authenticatedGroup.Group("/clients")
	{
		clientRoutes.POST("", clientHandler.CreateClient)
		clientRoutes.GET("", clientHandler.GetClients)
		clientRoutes.GET("/stats", clientHandler.GetClientStats)
		clientRoutes.GET("/:id", clientHandler.GetClientByID)
		clientRoutes.PUT("/:id", clientHandler.UpdateClient)
		clientRoutes.DELETE("/:id", clientHandler.DeleteClient)
		clientRoutes.POST("/:id/points", clientHandler.AddPoints)
	}
}
