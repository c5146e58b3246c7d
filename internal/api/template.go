package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"spond-whatsapp-bridge/internal/whatsapp"
)

type TemplateHandler struct {
	WA *whatsapp.Client
}

func NewTemplateHandler(wa *whatsapp.Client) *TemplateHandler {
	return &TemplateHandler{WA: wa}
}

type SendTemplateRequest struct {
	To           string                  `json:"to" binding:"required"`
	TemplateName string                  `json:"template_name" binding:"required"`
	Language     string                  `json:"language"`
	Components   []whatsapp.ComponentObj `json:"components"`
}

// SendTemplate dispatches a pre-approved template message, the path for
// reaching members outside the 24h interactive session window.
func (h *TemplateHandler) SendTemplate(c *gin.Context) {
	var req SendTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Language == "" {
		req.Language = "en_GB"
	}
	to := whatsapp.NormalizeE164(req.To)

	if err := h.WA.SendTemplate(c.Request.Context(), to, req.TemplateName, req.Language, req.Components); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}
