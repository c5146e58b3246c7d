package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spond-whatsapp-bridge/internal/config"
)

// Client sends messages through the WhatsApp Cloud API.
type Client struct {
	Config *config.Config
	http   *http.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		Config: cfg,
		http:   &http.Client{Timeout: 20 * time.Second},
	}
}

// --- Message Structures ---

type GenericMessage struct {
	MessagingProduct string          `json:"messaging_product"`
	To               string          `json:"to"`
	Type             string          `json:"type"`
	RecipientType    string          `json:"recipient_type,omitempty"`
	Text             *TextObj        `json:"text,omitempty"`
	Template         *TemplateObj    `json:"template,omitempty"`
	Interactive      *InteractiveObj `json:"interactive,omitempty"`
}

type TextObj struct {
	Body       string `json:"body"`
	PreviewUrl bool   `json:"preview_url,omitempty"`
}

type TemplateObj struct {
	Name       string         `json:"name"`
	Language   LanguageObj    `json:"language"`
	Components []ComponentObj `json:"components,omitempty"`
}

type LanguageObj struct {
	Code string `json:"code"`
}

type ComponentObj struct {
	Type       string         `json:"type"`
	SubType    string         `json:"sub_type,omitempty"`
	Parameters []ParameterObj `json:"parameters"`
	Index      string         `json:"index,omitempty"` // For buttons
}

type ParameterObj struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type InteractiveObj struct {
	Type   string     `json:"type"`
	Body   BodyObj    `json:"body"`
	Footer *FooterObj `json:"footer,omitempty"`
	Action ActionObj  `json:"action"`
}

type BodyObj struct {
	Text string `json:"text"`
}

type FooterObj struct {
	Text string `json:"text"`
}

type ActionObj struct {
	Buttons []ButtonObj `json:"buttons,omitempty"`
}

type ButtonObj struct {
	Type  string   `json:"type"`
	Reply ReplyObj `json:"reply"`
}

type ReplyObj struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// --- Messaging Methods ---

// SendRawMessage posts a message envelope to the Cloud API. Each send is a
// single round-trip; a non-2xx response fails with the response body
// attached and is not retried.
func (c *Client) SendRawMessage(ctx context.Context, msg GenericMessage) error {
	jsonData, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/%s/messages", c.Config.GraphBase, c.Config.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Config.WhatsAppToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("API error: %s - %s", resp.Status, string(respBody))
	}
	return nil
}

// SendText sends a plain text message, used for confirmations and for
// telling a sender something went wrong.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	msg := GenericMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text: &TextObj{
			Body: body,
		},
	}
	return c.SendRawMessage(ctx, msg)
}

// SendTemplate sends a pre-approved template message. Templates are the only
// way to initiate a conversation outside the 24h customer care window.
func (c *Client) SendTemplate(ctx context.Context, to, templateName, languageCode string, components []ComponentObj) error {
	msg := GenericMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: &TemplateObj{
			Name: templateName,
			Language: LanguageObj{
				Code: languageCode,
			},
			Components: components,
		},
	}
	return c.SendRawMessage(ctx, msg)
}

// SendAvailabilityButtons sends an interactive message with Yes/Maybe/No
// reply buttons for an event. The event id is embedded in each button id so
// the webhook can reconstruct the update without server-side session state.
func (c *Client) SendAvailabilityButtons(ctx context.Context, to, eventID, title string) error {
	msg := GenericMessage{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "interactive",
		Interactive: &InteractiveObj{
			Type: "button",
			Body: BodyObj{
				Text: fmt.Sprintf("%s\nAre you available?", title),
			},
			Action: ActionObj{
				Buttons: []ButtonObj{
					{Type: "reply", Reply: ReplyObj{ID: BuildButtonID(eventID, ChoiceYes), Title: "Yes"}},
					{Type: "reply", Reply: ReplyObj{ID: BuildButtonID(eventID, ChoiceMaybe), Title: "Maybe"}},
					{Type: "reply", Reply: ReplyObj{ID: BuildButtonID(eventID, ChoiceNo), Title: "No"}},
				},
			},
		},
	}
	return c.SendRawMessage(ctx, msg)
}
