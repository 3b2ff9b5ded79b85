package bot

import (
	"context"
	"strings"

	"github.com/zhouzirui/eventbuddy/internal/dialog"
	"github.com/zhouzirui/eventbuddy/internal/model/convo"
	"github.com/zhouzirui/eventbuddy/internal/model/events"
)

const descriptionPreviewLen = 140

// suggestStep searches events with the stored preferences and renders one
// card per result, each carrying the weather and itinerary postbacks.
func (s *Service) suggestStep(ctx context.Context, t *dialog.Turn, _ *dialog.Input) dialog.Result {
	query := events.FromPreferences(t.Session.Preferences)

	results, err := s.events.Search(ctx, t.Session.AuthToken, query)
	if err != nil {
		return dialog.Fail(err)
	}

	if len(results) == 0 {
		t.Say(convo.QuickReplies(
			"I couldn't find events matching your preferences. Want to change them?",
			[]convo.Button{
				{Kind: convo.ButtonReply, Label: "Update preferences", Value: "update preferences"},
			}))
		return dialog.Complete()
	}

	cards := make([]convo.Card, 0, len(results))
	for _, event := range results {
		t.Session.RememberEvent(event.ID)
		cards = append(cards, eventCard(event))
	}

	t.Say(convo.Text("Here is what I found:"))
	t.Say(convo.Carousel(cards))
	return dialog.Complete()
}

func eventCard(event events.Event) convo.Card {
	subtitle := event.StartUTC
	if event.Venue != nil && event.Venue.Name != "" {
		subtitle += " · " + event.Venue.Name
	}

	buttons := []convo.Button{
		{Kind: convo.ButtonPostback, Label: "Weather forecast", Value: prefixWeather + event.ID},
		{Kind: convo.ButtonPostback, Label: "Itinerary", Value: prefixItinerary + event.ID},
	}
	if event.PublicURL != "" {
		buttons = append(buttons, convo.Button{
			Kind: convo.ButtonOpenURL, Label: "View event", Value: event.PublicURL,
		})
	}

	return convo.Card{
		Title:    event.Title,
		Subtitle: subtitle,
		Body:     previewText(event.Description),
		ImageURL: event.LogoURL,
		Buttons:  buttons,
	}
}

func previewText(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= descriptionPreviewLen {
		return text
	}
	return strings.TrimSpace(text[:descriptionPreviewLen]) + "…"
}
