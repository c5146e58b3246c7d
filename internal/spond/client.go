package spond

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"spond-whatsapp-bridge/internal/config"
)

// Client talks to the unofficial Spond API. The API is reverse-engineered,
// so every raw field name and endpoint lives in this package only; callers
// see typed Event/Person values and schema drift stays a one-package fix.
type Client struct {
	Config *config.Config
}

func NewClient(cfg *config.Config) *Client {
	return &Client{Config: cfg}
}

// ResponseStatus is a person's attendance answer for an event.
type ResponseStatus string

const (
	Attending ResponseStatus = "attending"
	Maybe     ResponseStatus = "maybe"
	Declined  ResponseStatus = "declined"
)

// Event is an upcoming Spond event. The responses buckets hold person ids
// grouped by RSVP state as Spond reports them.
type Event struct {
	ID             string    `json:"id"`
	UID            string    `json:"uid"`
	Heading        string    `json:"heading"`
	StartTimestamp time.Time `json:"startTimestamp"`
	Responses      Responses `json:"responses"`
}

type Responses struct {
	UnansweredIDs  []string `json:"unansweredIds"`
	UnconfirmedIDs []string `json:"unconfirmedIds"`
}

// EventID returns the event's identifier; some responses carry it as "uid"
// rather than "id".
func (e *Event) EventID() string {
	if e.ID != "" {
		return e.ID
	}
	return e.UID
}

// Title returns the event heading, falling back to a generic label.
func (e *Event) Title() string {
	if e.Heading != "" {
		return e.Heading
	}
	return "Upcoming event"
}

// PendingResponders returns the deduplicated union of the unanswered and
// unconfirmed buckets: everyone who still owes a confirmed answer.
func (e *Event) PendingResponders() []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, bucket := range [][]string{e.Responses.UnansweredIDs, e.Responses.UnconfirmedIDs} {
		for _, id := range bucket {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// Person is a Spond member profile. Spond stores the contact number under
// either "phone" or "mobile" depending on how the profile was created.
type Person struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Phone     string `json:"phone"`
	Mobile    string `json:"mobile"`
}

// PhoneNumber returns the first non-empty contact number, or "".
func (p *Person) PhoneNumber() string {
	if p.Phone != "" {
		return p.Phone
	}
	return p.Mobile
}

// Session is an authenticated connection to Spond, scoped to one logical
// operation sequence (a sync cycle or a single webhook update). Callers must
// Close it on every exit path.
type Session struct {
	base  string
	token string
	http  *http.Client
}

// Open logs in and returns a session. Spond issues a bearer token per login;
// there is no refresh flow, which is fine for short-lived sessions.
func (c *Client) Open(ctx context.Context) (*Session, error) {
	s := &Session{
		base: c.Config.SpondBase,
		http: &http.Client{Timeout: 20 * time.Second},
	}

	creds := map[string]string{
		"email":    c.Config.SpondUser,
		"password": c.Config.SpondPass,
	}
	var out struct {
		LoginToken string `json:"loginToken"`
	}
	if err := s.do(ctx, http.MethodPost, "/login", creds, &out); err != nil {
		return nil, fmt.Errorf("spond login: %w", err)
	}
	if out.LoginToken == "" {
		return nil, fmt.Errorf("spond login: no token in response")
	}
	s.token = out.LoginToken
	return s, nil
}

// Close releases the session's network resources.
func (s *Session) Close() {
	s.http.CloseIdleConnections()
}

func (s *Session) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.base+path, reader)
	if err != nil {
		return err
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("spond API error: %s - %s", resp.Status, string(respBody))
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode spond response: %w", err)
		}
	}
	return nil
}

// UpcomingEvents lists events starting between now and now+daysAhead.
// Spond returns them in no guaranteed order.
func (s *Session) UpcomingEvents(ctx context.Context, daysAhead int) ([]Event, error) {
	now := time.Now().UTC()
	q := url.Values{}
	q.Set("scheduled", "true")
	q.Set("max", strconv.Itoa(100))
	q.Set("minStartTimestamp", now.Format(time.RFC3339))
	q.Set("maxStartTimestamp", now.AddDate(0, 0, daysAhead).Format(time.RFC3339))

	var events []Event
	if err := s.do(ctx, http.MethodGet, "/sponds?"+q.Encode(), nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetPerson fetches a single member profile.
func (s *Session) GetPerson(ctx context.Context, personID string) (*Person, error) {
	var p Person
	if err := s.do(ctx, http.MethodGet, "/profiles/"+personID, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetResponse writes a person's RSVP for an event. Spond models this as an
// upsert, so repeating the call with the same arguments is safe.
func (s *Session) SetResponse(ctx context.Context, eventID, personID string, status ResponseStatus) error {
	body := map[string]string{"response": string(status)}
	path := fmt.Sprintf("/sponds/%s/responses/%s", eventID, personID)
	return s.do(ctx, http.MethodPut, path, body, nil)
}
