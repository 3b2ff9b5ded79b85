package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zhouzirui/eventbuddy/internal/dialog"
	"github.com/zhouzirui/eventbuddy/internal/model/convo"
	"github.com/zhouzirui/eventbuddy/internal/service/maps"
)

const itineraryApology = "Sorry, I can't build an itinerary for this event."

// itineraryStep answers an itinerary postback. With an origin address on
// file it offers to reuse it; otherwise it collects one first.
func (s *Service) itineraryStep(_ context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		eventID := t.Frame.Arg(argEventID)
		if !t.Session.KnowsEvent(eventID) {
			return dialog.Fail(fmt.Errorf("itinerary postback for unknown event %q", eventID))
		}
		t.Session.ActiveEventID = eventID

		if t.Session.Origin == nil {
			return dialog.Advance(dialogAskPosition, nil)
		}
		return dialog.Choice(
			fmt.Sprintf("Should I start from %s?", t.Session.Origin),
			[]string{"Yes", "No"},
		)
	}

	switch {
	case dialog.IsAffirmative(in.Text):
		return dialog.Advance(dialogMap, nil)
	case dialog.IsNegative(in.Text):
		return dialog.Advance(dialogAskPosition, nil)
	default:
		return dialog.Choice(t.Frame.Question, t.Frame.Choices)
	}
}

// The position dialog collects the origin address into frame arguments and
// commits it in one go, mirroring how the preference dialog collects.

func (s *Service) positionStreetStep(_ context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		return dialog.Prompt("What street are you starting from?")
	}

	answer := strings.TrimSpace(in.Text)
	if answer == "" {
		return dialog.Prompt(t.Frame.Question)
	}
	t.Frame.SetArg(argStreet, answer)
	return dialog.Next()
}

func (s *Service) positionCityStep(_ context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		return dialog.Prompt("Which city is that in?")
	}

	answer := strings.TrimSpace(in.Text)
	if answer == "" {
		return dialog.Prompt(t.Frame.Question)
	}
	t.Frame.SetArg(argCity, answer)
	return dialog.Next()
}

func (s *Service) positionPostalStep(_ context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		return dialog.Prompt("And the postal code?")
	}

	answer := strings.TrimSpace(in.Text)
	if answer == "" {
		return dialog.Prompt(t.Frame.Question)
	}
	t.Frame.SetArg(argPostalCode, answer)
	return dialog.Next()
}

func (s *Service) positionCommitStep(_ context.Context, t *dialog.Turn, _ *dialog.Input) dialog.Result {
	t.Session.Origin = &convo.Origin{
		Street:     t.Frame.Arg(argStreet),
		City:       t.Frame.Arg(argCity),
		PostalCode: t.Frame.Arg(argPostalCode),
	}
	return dialog.Advance(dialogMap, nil)
}

// mapModeStep asks how the user travels; "No Matter" leaves the mode out of
// the link entirely.
func (s *Service) mapModeStep(_ context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		return dialog.Choice("How will you get there?", maps.TravelModeChoices())
	}

	answer := strings.TrimSpace(in.Text)
	for _, choice := range maps.TravelModeChoices() {
		if strings.EqualFold(answer, choice) {
			t.Frame.SetArg(argTravelMode, choice)
			return dialog.Next()
		}
	}
	return dialog.Choice(t.Frame.Question, t.Frame.Choices)
}

// mapLinkStep fetches the venue address and renders the directions link.
func (s *Service) mapLinkStep(ctx context.Context, t *dialog.Turn, _ *dialog.Input) dialog.Result {
	if t.Session.Origin == nil {
		return dialog.Fail(errors.New("no origin address stored"))
	}

	event, err := s.events.EventByID(ctx, t.Session.AuthToken, t.Session.ActiveEventID)
	if err != nil {
		return dialog.Fail(err)
	}
	if event.Venue == nil {
		t.Say(convo.Text(itineraryApology))
		return dialog.Complete()
	}

	link := maps.DirectionsLink(
		t.Session.Origin.String(),
		event.Venue.Address.String(),
		t.Frame.Arg(argTravelMode),
	)

	t.Say(convo.CardMessage(convo.Card{
		Title:    "Your itinerary",
		Subtitle: event.Title,
		Body:     "Tap below to open the route in Google Maps.",
		Buttons: []convo.Button{
			{Kind: convo.ButtonOpenURL, Label: "Open in Google Maps", Value: link},
		},
	}))
	return dialog.Complete()
}
