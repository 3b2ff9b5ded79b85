package convo

import (
	"strings"
	"time"
)

// NoMatter is the reserved answer meaning "do not filter on this field".
// Comparison is case-insensitive on the trimmed value.
const NoMatter = "no matter"

// IsNoMatter reports whether a stored preference value is the no-filter sentinel.
func IsNoMatter(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), NoMatter)
}

// Price is the three-way event price filter.
type Price string

const (
	PriceFree     Price = "Free"
	PricePaid     Price = "Paid"
	PriceNoMatter Price = "No Matter"
)

// ParsePrice maps a user choice onto the price enum.
func ParsePrice(raw string) (Price, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "free":
		return PriceFree, true
	case "paid":
		return PricePaid, true
	case "no matter":
		return PriceNoMatter, true
	default:
		return "", false
	}
}

// Category pairs an events-API category id with its human label.
type Category struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label,omitempty"`
}

// Preferences holds the filters collected by the preference dialog.
type Preferences struct {
	Keyword  string   `json:"keyword,omitempty"`
	Location string   `json:"location,omitempty"`
	Category Category `json:"category,omitempty"`
	Price    Price    `json:"price,omitempty"`
	Date     string   `json:"date,omitempty"` // YYYY-MM-DDT13:00:00, see ParseDate
}

// Origin is the postal address used as the directions starting point.
type Origin struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

// String renders the origin as a single routable address line.
func (o Origin) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{o.Street, o.PostalCode, o.City} {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return strings.Join(parts, " ")
}

// Frame is one suspended dialog on the conversation stack, innermost last.
// Question and Choices mirror the pending prompt so it can be re-issued
// verbatim after a declined cancellation or a process restart.
type Frame struct {
	Dialog        string            `json:"dialog"`
	Step          int               `json:"step"`
	Waiting       bool              `json:"waiting"`
	CancelPending bool              `json:"cancelPending,omitempty"`
	Question      string            `json:"question,omitempty"`
	Choices       []string          `json:"choices,omitempty"`
	Args          map[string]string `json:"args,omitempty"`
}

// Arg reads a frame argument, tolerating a nil map.
func (f *Frame) Arg(key string) string {
	if f.Args == nil {
		return ""
	}
	return f.Args[key]
}

// SetArg writes a frame argument, allocating the map on first use.
func (f *Frame) SetArg(key, value string) {
	if f.Args == nil {
		f.Args = make(map[string]string)
	}
	f.Args[key] = value
}

// Session captures everything the bot remembers about one conversation.
type Session struct {
	ID            string            `json:"id"`
	AuthToken     string            `json:"authToken,omitempty"`
	Username      string            `json:"username,omitempty"`
	Preferences   Preferences       `json:"preferences"`
	ActiveEventID string            `json:"activeEventId,omitempty"`
	Origin        *Origin           `json:"origin,omitempty"`
	DialogStack   []Frame           `json:"dialogStack,omitempty"`
	// KnownEventIDs lists event ids returned by the events API during this
	// conversation; ActiveEventID is only ever set to one of these.
	KnownEventIDs []string `json:"knownEventIds,omitempty"`
	// CategoryChoices caches the label->id listing fetched for the current
	// preference dialog. Scoped to the session, never shared across conversations.
	CategoryChoices map[string]string `json:"categoryChoices,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// New returns an idle session with defaults for the given conversation id.
func New(conversationID string) Session {
	now := time.Now().UTC()
	return Session{
		ID:        conversationID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Authenticated reports whether a bearer token has been stored.
func (s *Session) Authenticated() bool {
	return strings.TrimSpace(s.AuthToken) != ""
}

// Top returns the innermost dialog frame, or nil when the conversation is idle.
func (s *Session) Top() *Frame {
	if len(s.DialogStack) == 0 {
		return nil
	}
	return &s.DialogStack[len(s.DialogStack)-1]
}

// Push appends a new frame for the named dialog.
func (s *Session) Push(dialog string, args map[string]string) {
	s.DialogStack = append(s.DialogStack, Frame{Dialog: dialog, Args: args})
}

// Pop removes the innermost frame. Popping an empty stack is a no-op.
func (s *Session) Pop() {
	if len(s.DialogStack) > 0 {
		s.DialogStack = s.DialogStack[:len(s.DialogStack)-1]
	}
}

// KnowsEvent reports whether the events API returned this id earlier in the session.
func (s *Session) KnowsEvent(id string) bool {
	for _, known := range s.KnownEventIDs {
		if known == id {
			return true
		}
	}
	return false
}

// RememberEvent records an event id handed back by the events API.
func (s *Session) RememberEvent(id string) {
	if id == "" || s.KnowsEvent(id) {
		return
	}
	s.KnownEventIDs = append(s.KnownEventIDs, id)
}
