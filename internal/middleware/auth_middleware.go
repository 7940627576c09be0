package middleware

import (
	"net/http"
	"strings"

	"loyalty_club_backend/internal/services"
	"loyalty_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserName  = "userName"
	ContextUserEmail = "userEmail"
)

// AuthMiddleware requires a valid Bearer token and an open session.
func AuthMiddleware(authService services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.RespondUnauthorized(c, "Invalid authorization header format. Use Bearer <token>")
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid or expired session", err.Error()))
			return
		}

		// Set user information in the context for downstream handlers
		c.Set(ContextUserName, claims.Name)
		c.Set(ContextUserEmail, claims.Email)

		c.Next()
	}
}

// ViewGuard redirects page requests according to the session gate. Requests
// that need no redirect continue to the view handler.
func ViewGuard(gate *services.SessionGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		view := c.Request.URL.Path
		if target := gate.Resolve(view); target != view {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
