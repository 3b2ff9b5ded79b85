package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zhouzirui/eventbuddy/internal/model/events"
)

var (
	ErrTokenRequired  = errors.New("events: access token is required")
	ErrEventNotFound  = errors.New("events: event not found")
	ErrCodeRejected   = errors.New("events: login code was rejected")
	ErrMissingVenue   = errors.New("events: event has no venue")
	ErrUnexpectedBody = errors.New("events: unexpected response body")
)

// Gateway is the thin client for the third-party events API. It performs no
// retries; callers turn any failure into a user-visible apology.
type Gateway struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
}

// Option configures the gateway.
type Option func(*Gateway)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) { g.httpClient = client }
}

// WithTimeout sets the per-call timeout on the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(g *Gateway) { g.httpClient.Timeout = timeout }
}

// NewGateway builds a client against the given API base URL.
func NewGateway(baseURL, clientID, clientSecret string, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:      strings.TrimRight(baseURL, "/"),
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AuthorizeURL is the sign-in page users visit to obtain a login code.
func (g *Gateway) AuthorizeURL() string {
	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("client_id", g.clientID)
	return g.baseURL + "/oauth/authorize?" + params.Encode()
}

// ExchangeCode trades an OAuth login code for a bearer token.
func (g *Gateway) ExchangeCode(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("client_id", g.clientID)
	form.Set("client_secret", g.clientSecret)
	form.Set("code", strings.TrimSpace(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/oauth/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("events: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("events: token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return "", ErrCodeRejected
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("events: token endpoint returned %s", resp.Status)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("events: decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", ErrUnexpectedBody
	}
	return payload.AccessToken, nil
}

// Profile fetches the authenticated user's display name.
func (g *Gateway) Profile(ctx context.Context, token string) (string, error) {
	body, err := g.get(ctx, token, "/users/me/", nil)
	if err != nil {
		return "", err
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("events: decode profile: %w", err)
	}
	return payload.Name, nil
}

// Categories lists the API's event categories.
func (g *Gateway) Categories(ctx context.Context, token string) ([]events.Category, error) {
	body, err := g.get(ctx, token, "/categories/", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Categories []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("events: decode categories: %w", err)
	}

	categories := make([]events.Category, 0, len(payload.Categories))
	for _, c := range payload.Categories {
		categories = append(categories, events.Category{ID: c.ID, Name: c.Name})
	}
	return categories, nil
}

// Search runs an event search with the query's filters, venue expanded.
func (g *Gateway) Search(ctx context.Context, token string, query events.SearchQuery) ([]events.Event, error) {
	params := query.Values()
	params.Set("expand", "venue")

	body, err := g.get(ctx, token, "/events/search/", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Events []wireEvent `json:"events"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("events: decode search results: %w", err)
	}

	results := make([]events.Event, 0, len(payload.Events))
	for _, we := range payload.Events {
		results = append(results, we.toEvent())
	}
	return results, nil
}

// EventByID fetches one event with its venue expanded.
func (g *Gateway) EventByID(ctx context.Context, token, eventID string) (events.Event, error) {
	params := url.Values{}
	params.Set("expand", "venue")

	body, err := g.get(ctx, token, "/events/"+url.PathEscape(eventID)+"/", params)
	if err != nil {
		return events.Event{}, err
	}

	var we wireEvent
	if err := json.Unmarshal(body, &we); err != nil {
		return events.Event{}, fmt.Errorf("events: decode event %s: %w", eventID, err)
	}
	if we.ID == "" {
		return events.Event{}, ErrUnexpectedBody
	}
	return we.toEvent(), nil
}

func (g *Gateway) get(ctx context.Context, token, path string, params url.Values) ([]byte, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenRequired
	}

	endpoint := g.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("events: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("events: request %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrEventNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("events: %s returned %s", path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("events: read response: %w", err)
	}
	return body, nil
}

// wireEvent mirrors the API's nested event shape before flattening.
type wireEvent struct {
	ID   string `json:"id"`
	Name struct {
		Text string `json:"text"`
	} `json:"name"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
	Start struct {
		UTC      string `json:"utc"`
		Timezone string `json:"timezone"`
	} `json:"start"`
	Venue *struct {
		ID        string         `json:"id"`
		Name      string         `json:"name"`
		Address   events.Address `json:"address"`
		Latitude  string         `json:"latitude"`
		Longitude string         `json:"longitude"`
	} `json:"venue"`
	Logo *struct {
		URL string `json:"url"`
	} `json:"logo"`
	URL string `json:"url"`
}

func (we wireEvent) toEvent() events.Event {
	event := events.Event{
		ID:          we.ID,
		Title:       we.Name.Text,
		Description: we.Description.Text,
		StartUTC:    we.Start.UTC,
		Timezone:    we.Start.Timezone,
		PublicURL:   we.URL,
	}
	if we.Venue != nil {
		event.Venue = &events.Venue{
			ID:        we.Venue.ID,
			Name:      we.Venue.Name,
			Address:   we.Venue.Address,
			Latitude:  we.Venue.Latitude,
			Longitude: we.Venue.Longitude,
		}
	}
	if we.Logo != nil {
		event.LogoURL = we.Logo.URL
	}
	return event
}
