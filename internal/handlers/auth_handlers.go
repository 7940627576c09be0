package handlers

import (
	"errors"
	"net/http"

	"loyalty_club_backend/internal/services"
	"loyalty_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service.
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as services.AuthService) *AuthHandler {
	return &AuthHandler{authService: as}
}

// LoginUser handles user login.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "LoginUser: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	authResp, err := h.authService.LoginUser(req)
	if err != nil {
		utils.LogWarn(err, "LoginUser: Error from authService.LoginUser")
		switch {
		case errors.Is(err, services.ErrLoginValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		case errors.Is(err, services.ErrInvalidCredentials):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid email or password.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to login.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, authResp)
}

// GetCurrentUser returns the open session.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	session := h.authService.CurrentSession()
	if !session.Authenticated {
		utils.RespondUnauthorized(c, "User not authenticated.")
		return
	}
	c.JSON(http.StatusOK, session)
}

// LogoutUser closes the session. Tokens issued before stop validating.
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	h.authService.LogoutUser()
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}
