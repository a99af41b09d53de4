package google

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2"

	calendarApp "github.com/lifedash/lifedash/internal/calendar/application"
	"github.com/lifedash/lifedash/internal/calendar/domain"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

type tokenSourceProvider interface {
	TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error)
}

// APIError is a non-2xx response from the calendar API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("calendar api error: status=%d body=%s", e.Status, e.Body)
}

// Client talks to the Google Calendar REST API on behalf of a connected
// user. All calls run through a shared circuit breaker so a flapping
// provider fails fast instead of stalling every sync.
type Client struct {
	oauthService tokenSourceProvider
	logger       *slog.Logger
	baseURL      string
	breaker      *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a calendar API client. An empty baseURL selects the
// production endpoint.
func NewClient(oauthService tokenSourceProvider, logger *slog.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	settings := gobreaker.Settings{
		Name:        "google-calendar",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}
	return &Client{
		oauthService: oauthService,
		logger:       logger,
		baseURL:      baseURL,
		breaker:      gobreaker.NewCircuitBreaker[[]byte](settings),
	}
}

// ListCalendars returns the calendars accessible to the user.
func (c *Client) ListCalendars(ctx context.Context, userID uuid.UUID) ([]calendarApp.RemoteCalendar, error) {
	client, err := c.httpClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, err := c.do(ctx, client, http.MethodGet, c.baseURL+"/users/me/calendarList", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []struct {
			ID              string `json:"id"`
			Summary         string `json:"summary"`
			Primary         bool   `json:"primary"`
			BackgroundColor string `json:"backgroundColor"`
		} `json:"items"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	calendars := make([]calendarApp.RemoteCalendar, 0, len(payload.Items))
	for _, item := range payload.Items {
		calendars = append(calendars, calendarApp.RemoteCalendar{
			ID:              item.ID,
			Name:            item.Summary,
			Primary:         item.Primary,
			BackgroundColor: item.BackgroundColor,
		})
	}
	return calendars, nil
}

// ListEvents pulls the events of one calendar within [from, to), already
// converted to local remote-origin events. Recurring series arrive as
// individual instances.
func (c *Client) ListEvents(ctx context.Context, userID uuid.UUID, calendarID string, from, to time.Time) ([]*domain.Event, error) {
	client, err := c.httpClient(ctx, userID)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("timeMin", from.UTC().Format(time.RFC3339))
	query.Set("timeMax", to.UTC().Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")

	listURL := fmt.Sprintf("%s/calendars/%s/events?%s", c.baseURL, url.PathEscape(calendarID), query.Encode())
	data, err := c.do(ctx, client, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []eventItem `json:"items"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	events := make([]*domain.Event, 0, len(payload.Items))
	for _, item := range payload.Items {
		event, err := toLocal(userID, calendarID, item)
		if err != nil {
			c.logger.Warn("skipping unconvertible remote event",
				"calendar_id", calendarID,
				"event_id", item.ID,
				"error", err,
			)
			continue
		}
		if event == nil {
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// CreateEvent pushes a local event to the given calendar and returns the
// provider-assigned event id.
func (c *Client) CreateEvent(ctx context.Context, userID uuid.UUID, calendarID string, event *domain.Event) (string, error) {
	client, err := c.httpClient(ctx, userID)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(toRemote(event))
	if err != nil {
		return "", err
	}

	insertURL := fmt.Sprintf("%s/calendars/%s/events", c.baseURL, url.PathEscape(calendarID))
	data, err := c.do(ctx, client, http.MethodPost, insertURL, body)
	if err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// UpdateEvent replaces a provider event with the local event's fields.
func (c *Client) UpdateEvent(ctx context.Context, userID uuid.UUID, calendarID, providerEventID string, event *domain.Event) error {
	client, err := c.httpClient(ctx, userID)
	if err != nil {
		return err
	}

	body, err := json.Marshal(toRemote(event))
	if err != nil {
		return err
	}

	updateURL := fmt.Sprintf("%s/calendars/%s/events/%s", c.baseURL, url.PathEscape(calendarID), url.PathEscape(providerEventID))
	_, err = c.do(ctx, client, http.MethodPut, updateURL, body)
	return err
}

// DeleteEvent removes a provider event.
func (c *Client) DeleteEvent(ctx context.Context, userID uuid.UUID, calendarID, providerEventID string) error {
	client, err := c.httpClient(ctx, userID)
	if err != nil {
		return err
	}

	deleteURL := fmt.Sprintf("%s/calendars/%s/events/%s", c.baseURL, url.PathEscape(calendarID), url.PathEscape(providerEventID))
	_, err = c.do(ctx, client, http.MethodDelete, deleteURL, nil)
	return err
}

func (c *Client) httpClient(ctx context.Context, userID uuid.UUID) (*http.Client, error) {
	if c.oauthService == nil {
		return nil, fmt.Errorf("oauth service not configured")
	}
	tokenSource, err := c.oauthService.TokenSource(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Timeout: 15 * time.Second,
		Transport: &oauthTransport{
			base:   http.DefaultTransport,
			source: tokenSource,
		},
	}, nil
}

func (c *Client) do(ctx context.Context, client *http.Client, method, requestURL string, body []byte) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{Status: resp.StatusCode, Body: string(data)}
		}
		return data, nil
	})
}

type oauthTransport struct {
	base   http.RoundTripper
	source oauth2.TokenSource
}

func (t *oauthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token, err := t.source.Token()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	return t.base.RoundTrip(req)
}
