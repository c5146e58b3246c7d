package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"spond-whatsapp-bridge/internal/invite"
)

type SyncHandler struct {
	Engine *invite.Engine
}

func NewSyncHandler(engine *invite.Engine) *SyncHandler {
	return &SyncHandler{Engine: engine}
}

// SyncAndInvite runs one sync-and-invite cycle. It is triggered externally
// (cron or manual request) and does not schedule itself. Adapter-level
// failure aborts the cycle with an operator-facing error; per-person send
// failures have already been absorbed by the engine.
func (h *SyncHandler) SyncAndInvite(c *gin.Context) {
	sent, err := h.Engine.SyncAndInvite(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("sync-and-invite cycle failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sync failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites_sent": sent})
}
