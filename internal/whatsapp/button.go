package whatsapp

import (
	"fmt"
	"strings"
)

// Button ids follow the format EVT:<event_id>:<CHOICE>. WhatsApp allows up
// to 256 characters for a reply id, plenty for Spond event ids. Spond ids
// are url-safe tokens and do not contain ':'; if that ever changes the
// parser below will mis-split and the webhook answers bad_button_id.
const buttonIDPrefix = "EVT"

type Choice string

const (
	ChoiceYes   Choice = "YES"
	ChoiceMaybe Choice = "MAYBE"
	ChoiceNo    Choice = "NO"
)

// BuildButtonID encodes an event id and choice into a reply button id.
func BuildButtonID(eventID string, choice Choice) string {
	return fmt.Sprintf("%s:%s:%s", buttonIDPrefix, eventID, choice)
}

// ParseButtonID decodes a reply button id back into its event id and raw
// choice. The choice is returned uppercased but otherwise unvalidated;
// mapping it to an RSVP status is the caller's concern so that a malformed
// id and an unknown choice stay distinguishable.
func ParseButtonID(id string) (eventID, choice string, err error) {
	parts := strings.SplitN(id, ":", 3)
	if len(parts) != 3 || parts[0] != buttonIDPrefix {
		return "", "", fmt.Errorf("malformed button id %q", id)
	}
	return parts[1], strings.ToUpper(parts[2]), nil
}
