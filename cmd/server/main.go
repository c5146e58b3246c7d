package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"spond-whatsapp-bridge/internal/api"
	"spond-whatsapp-bridge/internal/config"
	"spond-whatsapp-bridge/internal/database"
	"spond-whatsapp-bridge/internal/invite"
	"spond-whatsapp-bridge/internal/spond"
	"spond-whatsapp-bridge/internal/webhook"
	"spond-whatsapp-bridge/internal/whatsapp"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	store, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}

	spondClient := spond.NewClient(cfg)
	waClient := whatsapp.NewClient(cfg)
	inviteEngine := invite.NewEngine(cfg, store, spondClient, waClient)

	webhookHandler := webhook.NewHandler(cfg, store, spondClient, waClient)
	syncHandler := api.NewSyncHandler(inviteEngine)
	templateHandler := api.NewTemplateHandler(waClient)

	r := gin.Default()

	r.GET("/whatsapp/webhook", webhookHandler.VerifyWebhook)
	r.POST("/whatsapp/webhook", webhookHandler.HandleMessage)
	r.POST("/sync-and-invite", syncHandler.SyncAndInvite)
	r.POST("/api/send-template", templateHandler.SendTemplate)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to run server")
	}
}
