package handlers

import (
	"errors"
	"net/http"

	"loyalty_club_backend/internal/models"
	"loyalty_club_backend/internal/services"
	"loyalty_club_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ClientHandler holds the client service.
type ClientHandler struct {
	clientService services.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(cs services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: cs}
}

// AddPointsRequest is the body of POST /clients/:id/points.
type AddPointsRequest struct {
	Points models.Number `json:"points"`
}

// CreateClient handles the creation of a new client.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req services.ClientFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateClient: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CreateClient: Error from clientService.CreateClient")
		respondClientError(c, err, "Failed to create client.")
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClients returns the searched and sorted client list with collection stats.
func (h *ClientHandler) GetClients(c *gin.Context) {
	mode := services.ParseFilterMode(c.DefaultQuery("filter", string(services.FilterAll)))
	view := h.clientService.GetClientsView(c.Query("search"), mode)
	c.JSON(http.StatusOK, view)
}

// GetClientStats returns the stats over the whole collection.
func (h *ClientHandler) GetClientStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.clientService.GetStats())
}

// GetClientByID handles fetching a single client by ID.
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	client, err := h.clientService.GetClientByID(clientID)
	if err != nil {
		utils.LogError(err, "GetClientByID: Error from clientService.GetClientByID for ID "+utils.Int64ToStr(clientID))
		respondClientError(c, err, "Failed to fetch client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient handles updating a client.
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	var req services.ClientFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateClient: Failed to bind JSON for ID "+utils.Int64ToStr(clientID))
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	client, err := h.clientService.UpdateClient(c.Request.Context(), clientID, req)
	if err != nil {
		utils.LogError(err, "UpdateClient: Error from clientService.UpdateClient for ID "+utils.Int64ToStr(clientID))
		respondClientError(c, err, "Failed to update client.")
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient handles deleting a client. Unknown ids are accepted.
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	if err := h.clientService.DeleteClient(c.Request.Context(), clientID); err != nil {
		utils.LogError(err, "DeleteClient: Error from clientService.DeleteClient for ID "+utils.Int64ToStr(clientID))
		respondClientError(c, err, "Failed to delete client.")
		return
	}
	c.Status(http.StatusNoContent)
}

// AddPoints credits (or debits, when negative) a client's points balance.
func (h *ClientHandler) AddPoints(c *gin.Context) {
	clientID, ok := parseClientID(c)
	if !ok {
		return
	}

	var req AddPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}
	points, valid := req.Points.Int()
	if !valid {
		utils.RespondValidationFailed(c, "points must be a number")
		return
	}

	client, err := h.clientService.AddPoints(c.Request.Context(), clientID, points)
	if err != nil {
		utils.LogError(err, "AddPoints: Error from clientService.AddPoints for ID "+utils.Int64ToStr(clientID))
		respondClientError(c, err, "Failed to add points.")
		return
	}
	c.JSON(http.StatusOK, client)
}

func parseClientID(c *gin.Context) (int64, bool) {
	clientID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid client ID format.", err.Error()))
		return 0, false
	}
	return clientID, true
}

func respondClientError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrClientNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Client not found.", err.Error()))
	case errors.Is(err, services.ErrClientValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, services.ErrClientNotSaved):
		utils.RespondPersistenceFailed(c)
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, fallback, "Internal error"))
	}
}

