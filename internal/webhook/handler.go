package webhook

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"spond-whatsapp-bridge/internal/config"
	"spond-whatsapp-bridge/internal/database"
	"spond-whatsapp-bridge/internal/spond"
	"spond-whatsapp-bridge/internal/whatsapp"
	"spond-whatsapp-bridge/pkg/models"
)

// Handler receives WhatsApp webhook calls: the subscription verification
// handshake and inbound button replies that get relayed to Spond.
type Handler struct {
	Config *config.Config
	Store  *database.Store
	Spond  *spond.Client
	WA     *whatsapp.Client
}

func NewHandler(cfg *config.Config, store *database.Store, sc *spond.Client, wa *whatsapp.Client) *Handler {
	return &Handler{
		Config: cfg,
		Store:  store,
		Spond:  sc,
		WA:     wa,
	}
}

// statusForChoice maps a button choice to a Spond RSVP status.
var statusForChoice = map[string]spond.ResponseStatus{
	string(whatsapp.ChoiceYes):   spond.Attending,
	string(whatsapp.ChoiceMaybe): spond.Maybe,
	string(whatsapp.ChoiceNo):    spond.Declined,
}

// VerifyWebhook answers the subscription verification handshake. Meta sends
// hub.verify_token and hub.challenge; some older provider setups use the
// bare token/challenge names, so both are accepted. The challenge is echoed
// unmodified on a token match; no state is read or written.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	token := c.Query("hub.verify_token")
	if token == "" {
		token = c.Query("token")
	}
	challenge := c.Query("hub.challenge")
	if challenge == "" {
		challenge = c.Query("challenge")
	}

	if token != h.Config.VerifyToken {
		c.String(http.StatusForbidden, "forbidden")
		return
	}
	if challenge == "" {
		challenge = "OK"
	}
	c.String(http.StatusOK, challenge)
}

// HandleMessage processes an inbound notification. Anything that is not a
// button reply is acknowledged and ignored. Every terminal branch answers
// with a machine-readable status tag; internal error detail goes to the log,
// never to the sender.
func (h *Handler) HandleMessage(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	message, ok := payload.FirstMessage()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	if message.Interactive == nil || message.Interactive.Type != "button_reply" || message.Interactive.ButtonReply == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	ctx := c.Request.Context()
	from := whatsapp.NormalizeE164(message.From)

	eventID, choice, err := whatsapp.ParseButtonID(message.Interactive.ButtonReply.ID)
	if err != nil {
		log.Warn().Err(err).Str("from", from).Msg("unparseable button reply")
		h.notify(ctx, from, "Sorry, I couldn't process your response. Please ask the coach.")
		c.JSON(http.StatusOK, gin.H{"status": "bad_button_id"})
		return
	}

	status, ok := statusForChoice[choice]
	if !ok {
		log.Warn().Str("from", from).Str("choice", choice).Msg("unknown response choice")
		h.notify(ctx, from, "Sorry, unknown response choice.")
		c.JSON(http.StatusOK, gin.H{"status": "invalid_choice"})
		return
	}

	personID, err := h.Store.PersonID(from)
	if err != nil {
		log.Error().Err(err).Str("from", from).Msg("identity store lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
		return
	}
	if personID == "" {
		h.notify(ctx, from, "Couldn't link your number to any player. Please rejoin via the invite.")
		c.JSON(http.StatusOK, gin.H{"status": "unmapped_number"})
		return
	}

	session, err := h.Spond.Open(ctx)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("spond session open failed")
		h.notify(ctx, from, "An error occurred updating your status. Try again later.")
		c.JSON(http.StatusOK, gin.H{"status": "spond_error"})
		return
	}
	defer session.Close()

	if err := session.SetResponse(ctx, eventID, personID, status); err != nil {
		log.Error().
			Err(err).
			Str("event_id", eventID).
			Str("person_id", personID).
			Msg("spond response update failed")
		h.notify(ctx, from, "An error occurred updating your status. Try again later.")
		c.JSON(http.StatusOK, gin.H{"status": "spond_error"})
		return
	}

	h.notify(ctx, from, "Got it — marked you as "+string(status)+" ✅")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// notify sends a text to the user; a failed notification is only logged
// since there is nothing further to do about it.
func (h *Handler) notify(ctx context.Context, to, body string) {
	if err := h.WA.SendText(ctx, to, body); err != nil {
		log.Warn().Err(err).Str("to", to).Msg("notification send failed")
	}
}
