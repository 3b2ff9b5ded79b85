package events_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	model "github.com/zhouzirui/eventbuddy/internal/model/events"
	"github.com/zhouzirui/eventbuddy/internal/service/events"
)

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/oauth/token" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm err: %v", err)
		}
		if got := r.PostForm.Get("grant_type"); got != "authorization_code" {
			t.Fatalf("unexpected grant_type: %q", got)
		}
		if got := r.PostForm.Get("code"); got != "abc123" {
			t.Fatalf("unexpected code: %q", got)
		}
		w.Write([]byte(`{"access_token":"tok-1"}`))
	}))
	defer server.Close()

	g := events.NewGateway(server.URL, "cid", "secret")
	token, err := g.ExchangeCode(context.Background(), " abc123 ")
	if err != nil {
		t.Fatalf("ExchangeCode err: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("unexpected token: %q", token)
	}
}

func TestExchangeCodeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	g := events.NewGateway(server.URL, "cid", "secret")
	if _, err := g.ExchangeCode(context.Background(), "nope"); !errors.Is(err, events.ErrCodeRejected) {
		t.Fatalf("expected ErrCodeRejected, got %v", err)
	}
}

func TestSearchSendsFiltersAndFlattensEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/events/search/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("unexpected authorization header: %q", got)
		}
		query := r.URL.Query()
		if got := query.Get("q"); got != "jazz" {
			t.Fatalf("unexpected q: %q", got)
		}
		if got := query.Get("expand"); got != "venue" {
			t.Fatalf("unexpected expand: %q", got)
		}
		if got := query.Get("sort_by"); got != "date" {
			t.Fatalf("unexpected sort_by: %q", got)
		}
		if _, present := query["price"]; present {
			t.Fatal("sentinel price filter must be omitted")
		}
		w.Write([]byte(`{"events":[{
			"id":"42",
			"name":{"text":"Jazz Night"},
			"description":{"text":"An evening of jazz."},
			"start":{"utc":"2024-06-01T18:00:00Z","timezone":"Europe/Paris"},
			"venue":{"id":"v1","name":"Le Club","latitude":"48.85","longitude":"2.35",
				"address":{"localized_address_display":"1 rue du Jazz, Paris"}},
			"logo":{"url":"https://img.example/logo.png"},
			"url":"https://events.example/42"
		}]}`))
	}))
	defer server.Close()

	g := events.NewGateway(server.URL, "cid", "secret")
	results, err := g.Search(context.Background(), "tok-1", model.SearchQuery{Keyword: "jazz", Price: "No Matter"})
	if err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("unexpected result count: %d", len(results))
	}

	event := results[0]
	if event.ID != "42" || event.Title != "Jazz Night" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Venue == nil || event.Venue.Latitude != "48.85" {
		t.Fatalf("unexpected venue: %+v", event.Venue)
	}
	if event.Venue.Address.String() != "1 rue du Jazz, Paris" {
		t.Fatalf("unexpected address: %q", event.Venue.Address.String())
	}
	if event.LogoURL != "https://img.example/logo.png" {
		t.Fatalf("unexpected logo: %q", event.LogoURL)
	}
}

func TestSearchRequiresToken(t *testing.T) {
	g := events.NewGateway("http://127.0.0.1:0", "cid", "secret")
	if _, err := g.Search(context.Background(), "  ", model.SearchQuery{}); !errors.Is(err, events.ErrTokenRequired) {
		t.Fatalf("expected ErrTokenRequired, got %v", err)
	}
}

func TestEventByIDNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	g := events.NewGateway(server.URL, "cid", "secret")
	if _, err := g.EventByID(context.Background(), "tok-1", "missing"); !errors.Is(err, events.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventByIDExpandsVenue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/events/42/") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("expand"); got != "venue" {
			t.Fatalf("unexpected expand: %q", got)
		}
		w.Write([]byte(`{"id":"42","name":{"text":"Jazz Night"},"start":{"utc":"2024-06-01T18:00:00Z"}}`))
	}))
	defer server.Close()

	g := events.NewGateway(server.URL, "cid", "secret")
	event, err := g.EventByID(context.Background(), "tok-1", "42")
	if err != nil {
		t.Fatalf("EventByID err: %v", err)
	}
	if event.Title != "Jazz Night" || event.StartUTC != "2024-06-01T18:00:00Z" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Venue != nil {
		t.Fatalf("expected nil venue, got %+v", event.Venue)
	}
}

func TestCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categories/" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`{"categories":[{"id":"103","name":"Music"},{"id":"105","name":"Arts"}]}`))
	}))
	defer server.Close()

	g := events.NewGateway(server.URL, "cid", "secret")
	categories, err := g.Categories(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("Categories err: %v", err)
	}
	if len(categories) != 2 || categories[0].ID != "103" || categories[1].Name != "Arts" {
		t.Fatalf("unexpected categories: %+v", categories)
	}
}

func TestAuthorizeURL(t *testing.T) {
	g := events.NewGateway("https://api.example/v3/", "cid", "secret")
	got := g.AuthorizeURL()
	if !strings.HasPrefix(got, "https://api.example/v3/oauth/authorize?") {
		t.Fatalf("unexpected authorize URL: %s", got)
	}
	if !strings.Contains(got, "client_id=cid") || !strings.Contains(got, "response_type=code") {
		t.Fatalf("authorize URL missing parameters: %s", got)
	}
}
