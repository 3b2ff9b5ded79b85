package convo

// Inbound message kinds accepted from the channel connector. InboundStart
// marks the connector's conversation-opened signal.
const (
	InboundMessage  = "message"
	InboundPostback = "postback"
	InboundStart    = "start"
)

// Inbound is one user turn as extracted from the channel connector.
type Inbound struct {
	ConversationID string `json:"conversationId"`
	Type           string `json:"type"`
	Text           string `json:"text,omitempty"`
	// Value carries a postback payload such as "weather:12345".
	Value string `json:"value,omitempty"`
}

// Content returns the routable content of the turn: postback payloads win
// over free text.
func (in Inbound) Content() string {
	if in.Type == InboundPostback && in.Value != "" {
		return in.Value
	}
	return in.Text
}

// Outbound message kinds rendered back through the channel connector.
const (
	OutboundText         = "text"
	OutboundCard         = "card"
	OutboundCarousel     = "carousel"
	OutboundQuickReplies = "quickReplies"
)

// Button kinds supported on cards and quick replies.
const (
	ButtonPostback = "postback"
	ButtonOpenURL  = "openUrl"
	ButtonReply    = "imBack"
)

// Button is one tappable action on a card or quick-reply strip.
type Button struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Card is a single actionable attachment.
type Card struct {
	Title    string   `json:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	Body     string   `json:"body,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

// Outbound is one abstract message descriptor; translating it to a concrete
// channel wire format is the connector's job, not ours.
type Outbound struct {
	Type    string   `json:"type"`
	Text    string   `json:"text,omitempty"`
	Card    *Card    `json:"card,omitempty"`
	Cards   []Card   `json:"cards,omitempty"`
	Buttons []Button `json:"buttons,omitempty"`
}

// Text builds a plain-text descriptor.
func Text(text string) Outbound {
	return Outbound{Type: OutboundText, Text: text}
}

// CardMessage wraps a single card.
func CardMessage(card Card) Outbound {
	return Outbound{Type: OutboundCard, Card: &card}
}

// Carousel wraps a horizontal list of cards.
func Carousel(cards []Card) Outbound {
	return Outbound{Type: OutboundCarousel, Cards: cards}
}

// QuickReplies pairs a question with a strip of suggested answers.
func QuickReplies(text string, buttons []Button) Outbound {
	return Outbound{Type: OutboundQuickReplies, Text: text, Buttons: buttons}
}
