package handler

import (
	"github.com/gin-gonic/gin"

	"padron/internal/service"
)

// ObraSocialHandler handles obra social catalogue endpoints.
type ObraSocialHandler struct {
	obraSocialService service.ObraSocialService
}

// NewObraSocialHandler creates a new ObraSocialHandler.
func NewObraSocialHandler(obraSocialService service.ObraSocialService) *ObraSocialHandler {
	return &ObraSocialHandler{obraSocialService: obraSocialService}
}

// List handles GET /api/v1/obras-sociales
func (h *ObraSocialHandler) List(c *gin.Context) {
	groups, err := h.obraSocialService.ListSelectable(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, groups)
}
