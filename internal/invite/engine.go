package invite

import (
	"context"

	"github.com/rs/zerolog/log"

	"spond-whatsapp-bridge/internal/config"
	"spond-whatsapp-bridge/internal/database"
	"spond-whatsapp-bridge/internal/spond"
	"spond-whatsapp-bridge/internal/whatsapp"
)

// Engine runs the sync-and-invite cycle: pull upcoming Spond events, find
// members who still owe an answer, and invite them over WhatsApp.
type Engine struct {
	Config *config.Config
	Store  *database.Store
	Spond  *spond.Client
	WA     *whatsapp.Client
}

func NewEngine(cfg *config.Config, store *database.Store, sc *spond.Client, wa *whatsapp.Client) *Engine {
	return &Engine{
		Config: cfg,
		Store:  store,
		Spond:  sc,
		WA:     wa,
	}
}

// SyncAndInvite runs one cycle and returns the number of invites dispatched.
// A Spond connectivity failure aborts the whole cycle; a failure to reach a
// single person (no phone on file, or a failed send) is logged and skipped.
// The identity mapping is written before the send so a reply arriving right
// after the invite can already be resolved.
func (e *Engine) SyncAndInvite(ctx context.Context) (int, error) {
	session, err := e.Spond.Open(ctx)
	if err != nil {
		return 0, err
	}
	defer session.Close()

	events, err := session.UpcomingEvents(ctx, e.Config.DaysAhead)
	if err != nil {
		return 0, err
	}

	invitesSent := 0
	for i := range events {
		event := &events[i]
		eventID := event.EventID()

		for _, personID := range event.PendingResponders() {
			person, err := session.GetPerson(ctx, personID)
			if err != nil {
				return invitesSent, err
			}

			phone := person.PhoneNumber()
			if phone == "" {
				log.Debug().
					Str("person_id", personID).
					Str("event_id", eventID).
					Msg("no phone number on file, skipping")
				continue
			}
			phoneE164 := whatsapp.NormalizeE164(phone)

			// Map phone to person so the webhook can resolve the reply.
			if err := e.Store.UpsertPerson(phoneE164, personID); err != nil {
				return invitesSent, err
			}

			if err := e.WA.SendAvailabilityButtons(ctx, phoneE164, eventID, event.Title()); err != nil {
				log.Warn().
					Err(err).
					Str("phone", phoneE164).
					Str("event_id", eventID).
					Msg("invite send failed, continuing with next person")
				continue
			}
			invitesSent++
		}
	}
	return invitesSent, nil
}
