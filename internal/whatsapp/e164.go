package whatsapp

import "strings"

// NormalizeE164 ensures a phone number starts with a leading "+". WhatsApp
// drops the plus sign in webhook payloads while Spond usually stores numbers
// with it; normalizing both sides to one form keeps the person_map keys
// consistent. Idempotent: already-normalized numbers pass through unchanged.
func NormalizeE164(num string) string {
	num = strings.TrimSpace(num)
	if strings.HasPrefix(num, "+") {
		return num
	}
	return "+" + num
}
