package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zhouzirui/eventbuddy/internal/model/weather"
)

var ErrNoForecast = errors.New("weather: no forecast for requested day")

// Gateway is the thin client for the third-party daily-forecast API.
type Gateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
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
func NewGateway(baseURL, apiKey string, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Forecast fetches the daily forecast dayOffset days from today for the
// given coordinates. Hourly and minutely blocks are excluded from the
// response as a bandwidth hint to the API.
func (g *Gateway) Forecast(ctx context.Context, latitude, longitude string, dayOffset int) (weather.Forecast, error) {
	if dayOffset < 0 {
		dayOffset = 0
	}

	params := url.Values{}
	params.Set("exclude", "currently,minutely,hourly,alerts")
	params.Set("units", "si")

	endpoint := fmt.Sprintf("%s/forecast/%s/%s,%s?%s",
		g.baseURL, url.PathEscape(g.apiKey), latitude, longitude, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weather.Forecast{}, fmt.Errorf("weather: build request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return weather.Forecast{}, fmt.Errorf("weather: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return weather.Forecast{}, fmt.Errorf("weather: forecast endpoint returned %s", resp.Status)
	}

	var payload struct {
		Daily struct {
			Data []struct {
				Summary        string  `json:"summary"`
				Icon           string  `json:"icon"`
				TemperatureMin float64 `json:"temperatureMin"`
				TemperatureMax float64 `json:"temperatureMax"`
				Humidity       float64 `json:"humidity"`
			} `json:"data"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Forecast{}, fmt.Errorf("weather: decode forecast: %w", err)
	}

	if dayOffset >= len(payload.Daily.Data) {
		return weather.Forecast{}, ErrNoForecast
	}

	day := payload.Daily.Data[dayOffset]
	return weather.Forecast{
		Summary:  day.Summary,
		TempMin:  day.TemperatureMin,
		TempMax:  day.TemperatureMax,
		Humidity: day.Humidity,
		Icon:     day.Icon,
	}, nil
}

// DaysUntil computes the forecast horizon between now and an event's UTC
// start timestamp, truncated toward zero; past or unparsable dates yield 0.
func DaysUntil(now time.Time, startUTC string) int {
	start, err := time.Parse(time.RFC3339, startUTC)
	if err != nil {
		// The events API also emits timestamps without a zone suffix.
		start, err = time.Parse("2006-01-02T15:04:05", startUTC)
		if err != nil {
			return 0
		}
	}

	days := int(start.Sub(now).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
