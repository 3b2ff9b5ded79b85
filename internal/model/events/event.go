package events

import (
	"net/url"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

// Category is one entry of the events-API category listing.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Address is the venue postal address as returned by the events API.
type Address struct {
	Line1      string `json:"address_1,omitempty"`
	Line2      string `json:"address_2,omitempty"`
	City       string `json:"city,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	// Display is the API's pre-formatted one-line rendering when present.
	Display string `json:"localized_address_display,omitempty"`
}

// String returns the best single-line form of the address.
func (a Address) String() string {
	if a.Display != "" {
		return a.Display
	}
	line := a.Line1
	if a.Line2 != "" {
		line += " " + a.Line2
	}
	if a.PostalCode != "" {
		line += " " + a.PostalCode
	}
	if a.City != "" {
		line += " " + a.City
	}
	return line
}

// Venue describes where an event takes place.
type Venue struct {
	ID        string  `json:"id"`
	Name      string  `json:"name,omitempty"`
	Address   Address `json:"address"`
	Latitude  string  `json:"latitude,omitempty"`
	Longitude string  `json:"longitude,omitempty"`
}

// Event is the slice of the events-API event object the bot consumes.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// StartUTC is the UTC start timestamp, e.g. "2024-06-01T18:00:00Z".
	StartUTC  string `json:"startUtc"`
	Timezone  string `json:"timezone,omitempty"`
	Venue     *Venue `json:"venue,omitempty"`
	LogoURL   string `json:"logoUrl,omitempty"`
	PublicURL string `json:"publicUrl,omitempty"`
}

// SearchQuery carries the optional search filters. Fields holding the
// "no matter" sentinel are dropped entirely when the query is serialized.
type SearchQuery struct {
	Keyword    string
	Location   string
	CategoryID string
	Price      string
	StartDate  string
}

// Values serializes the query into events-API search parameters. Results are
// always date-sorted; sentinel or empty filters contribute no parameter key.
func (q SearchQuery) Values() url.Values {
	values := url.Values{}
	set := func(key, value string) {
		if value == "" || convo.IsNoMatter(value) {
			return
		}
		values.Set(key, value)
	}

	set("q", q.Keyword)
	set("location.address", q.Location)
	set("categories", q.CategoryID)
	set("price", q.Price)
	set("start_date.range_start", q.StartDate)
	values.Set("sort_by", "date")
	return values
}

// FromPreferences builds the search query for a session's stored filters.
func FromPreferences(p convo.Preferences) SearchQuery {
	price := string(p.Price)
	if p.Price == convo.PriceNoMatter {
		price = ""
	}
	return SearchQuery{
		Keyword:    p.Keyword,
		Location:   p.Location,
		CategoryID: p.Category.ID,
		Price:      price,
		StartDate:  p.Date,
	}
}
