package handlers

import (
	"net/http"

	"loyalty_club_backend/internal/models"
	"loyalty_club_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// ViewDescriptor describes the page the browser landed on once the session
// gate let it through.
type ViewDescriptor struct {
	View    string                `json:"view"`
	Session models.Session        `json:"session"`
	Clients *services.ClientsView `json:"clients,omitempty"`
}

// ViewHandler serves the page routes guarded by middleware.ViewGuard.
type ViewHandler struct {
	gate          *services.SessionGate
	clientService services.ClientService
}

// NewViewHandler creates a new ViewHandler.
func NewViewHandler(gate *services.SessionGate, cs services.ClientService) *ViewHandler {
	return &ViewHandler{gate: gate, clientService: cs}
}

// Login renders the login page descriptor.
func (h *ViewHandler) Login(c *gin.Context) {
	c.JSON(http.StatusOK, ViewDescriptor{View: services.ViewLogin, Session: h.gate.Session()})
}

// Clients renders the client list page with the same query parameters as the API.
func (h *ViewHandler) Clients(c *gin.Context) {
	mode := services.ParseFilterMode(c.DefaultQuery("filter", string(services.FilterAll)))
	view := h.clientService.GetClientsView(c.Query("search"), mode)
	c.JSON(http.StatusOK, ViewDescriptor{View: services.ViewClients, Session: h.gate.Session(), Clients: &view})
}

// Root sends the browser on to wherever the gate points for "/".
func (h *ViewHandler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, h.gate.Resolve(services.ViewRoot))
}
