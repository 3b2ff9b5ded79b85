package weather_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zhouzirui/eventbuddy/internal/service/weather"
)

func TestForecastFetchesRequestedDay(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/forecast/key-1/48.85,2.35" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if got := query.Get("units"); got != "si" {
			t.Fatalf("unexpected units: %q", got)
		}
		if got := query.Get("exclude"); got != "currently,minutely,hourly,alerts" {
			t.Fatalf("unexpected exclude: %q", got)
		}
		w.Write([]byte(`{"daily":{"data":[
			{"summary":"Clear.","icon":"clear-day","temperatureMin":10,"temperatureMax":20,"humidity":0.4},
			{"summary":"Rain.","icon":"rain","temperatureMin":8,"temperatureMax":14,"humidity":0.9}
		]}}`))
	}))
	defer server.Close()

	g := weather.NewGateway(server.URL, "key-1")
	forecast, err := g.Forecast(context.Background(), "48.85", "2.35", 1)
	if err != nil {
		t.Fatalf("Forecast err: %v", err)
	}
	if forecast.Icon != "rain" || forecast.Summary != "Rain." {
		t.Fatalf("unexpected forecast: %+v", forecast)
	}
	if forecast.TempMin != 8 || forecast.TempMax != 14 || forecast.Humidity != 0.9 {
		t.Fatalf("unexpected forecast values: %+v", forecast)
	}
}

func TestForecastBeyondHorizon(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{"data":[{"icon":"clear-day"}]}}`))
	}))
	defer server.Close()

	g := weather.NewGateway(server.URL, "key-1")
	if _, err := g.Forecast(context.Background(), "0", "0", 8); !errors.Is(err, weather.ErrNoForecast) {
		t.Fatalf("expected ErrNoForecast, got %v", err)
	}
}

func TestForecastNegativeOffsetClampsToToday(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"daily":{"data":[{"icon":"fog","summary":"Foggy."}]}}`))
	}))
	defer server.Close()

	g := weather.NewGateway(server.URL, "key-1")
	forecast, err := g.Forecast(context.Background(), "0", "0", -3)
	if err != nil {
		t.Fatalf("Forecast err: %v", err)
	}
	if forecast.Icon != "fog" {
		t.Fatalf("unexpected forecast: %+v", forecast)
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		start string
		want  int
	}{
		{"2024-06-04T12:00:00Z", 3},
		{"2024-06-04T13:00:00", 3},
		{"2024-06-01T18:00:00Z", 0},
		{"2024-05-20T12:00:00Z", 0},
		{"not a timestamp", 0},
	}
	for _, c := range cases {
		if got := weather.DaysUntil(now, c.start); got != c.want {
			t.Fatalf("DaysUntil(%q) = %d, want %d", c.start, got, c.want)
		}
	}
}
