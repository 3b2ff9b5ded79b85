package events_test

import (
	"testing"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
	"github.com/zhouzirui/eventbuddy/internal/model/events"
)

func TestSearchQueryValues(t *testing.T) {
	q := events.SearchQuery{
		Keyword:    "jazz",
		Location:   "Paris",
		CategoryID: "103",
		Price:      "Free",
		StartDate:  "2023-12-25T13:00:00",
	}
	values := q.Values()

	if got := values.Get("q"); got != "jazz" {
		t.Fatalf("unexpected q: %q", got)
	}
	if got := values.Get("location.address"); got != "Paris" {
		t.Fatalf("unexpected location.address: %q", got)
	}
	if got := values.Get("categories"); got != "103" {
		t.Fatalf("unexpected categories: %q", got)
	}
	if got := values.Get("price"); got != "Free" {
		t.Fatalf("unexpected price: %q", got)
	}
	if got := values.Get("start_date.range_start"); got != "2023-12-25T13:00:00" {
		t.Fatalf("unexpected start date: %q", got)
	}
	if got := values.Get("sort_by"); got != "date" {
		t.Fatalf("unexpected sort_by: %q", got)
	}
}

func TestSearchQueryValuesDropsSentinels(t *testing.T) {
	q := events.SearchQuery{
		Keyword:   "No Matter",
		Location:  "",
		Price:     "no matter",
		StartDate: "No Matter",
	}
	values := q.Values()

	for _, key := range []string{"q", "location.address", "categories", "price", "start_date.range_start"} {
		if _, present := values[key]; present {
			t.Fatalf("expected %s to be omitted, got %q", key, values.Get(key))
		}
	}
	if got := values.Get("sort_by"); got != "date" {
		t.Fatalf("sort_by must always be set, got %q", got)
	}
}

func TestFromPreferences(t *testing.T) {
	p := convo.Preferences{
		Keyword:  "jazz",
		Location: "Paris",
		Category: convo.Category{ID: "103", Label: "Music"},
		Price:    convo.PriceNoMatter,
		Date:     "2023-12-25T13:00:00",
	}
	q := events.FromPreferences(p)

	if q.CategoryID != "103" {
		t.Fatalf("unexpected category id: %q", q.CategoryID)
	}
	if q.Price != "" {
		t.Fatalf("price sentinel must map to empty, got %q", q.Price)
	}
	if q.StartDate != p.Date {
		t.Fatalf("unexpected start date: %q", q.StartDate)
	}
}

func TestAddressString(t *testing.T) {
	withDisplay := events.Address{Line1: "1 Main St", Display: "1 Main Street, Springfield"}
	if got := withDisplay.String(); got != "1 Main Street, Springfield" {
		t.Fatalf("expected display form to win, got %q", got)
	}

	assembled := events.Address{Line1: "1 Main St", PostalCode: "12345", City: "Springfield"}
	if got := assembled.String(); got != "1 Main St 12345 Springfield" {
		t.Fatalf("unexpected assembled address: %q", got)
	}
}
