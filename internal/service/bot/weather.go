package bot

import (
	"context"
	"fmt"

	"github.com/zhouzirui/eventbuddy/internal/dialog"
	"github.com/zhouzirui/eventbuddy/internal/model/convo"
	"github.com/zhouzirui/eventbuddy/internal/model/weather"
	weathergw "github.com/zhouzirui/eventbuddy/internal/service/weather"
)

const weatherApology = "Sorry, I can't find weather forecast for this event."

// weatherStep answers a weather postback: re-fetch the event for its venue
// and date, ask the forecast API for the event's day, render the summary.
// A missing venue or forecast ends with the apology, not an error.
func (s *Service) weatherStep(ctx context.Context, t *dialog.Turn, _ *dialog.Input) dialog.Result {
	eventID := t.Frame.Arg(argEventID)
	if !t.Session.KnowsEvent(eventID) {
		return dialog.Fail(fmt.Errorf("weather postback for unknown event %q", eventID))
	}
	t.Session.ActiveEventID = eventID

	event, err := s.events.EventByID(ctx, t.Session.AuthToken, eventID)
	if err != nil {
		return dialog.Fail(err)
	}

	if event.Venue == nil || event.Venue.Latitude == "" || event.Venue.Longitude == "" {
		t.Say(convo.Text(weatherApology))
		return dialog.Complete()
	}

	days := weathergw.DaysUntil(s.now(), event.StartUTC)
	forecast, err := s.weather.Forecast(ctx, event.Venue.Latitude, event.Venue.Longitude, days)
	if err != nil {
		t.Say(convo.Text(weatherApology))
		return dialog.Complete()
	}

	t.Say(convo.CardMessage(convo.Card{
		Title:    "Weather for " + event.Title,
		Subtitle: forecast.Summary,
		Body: fmt.Sprintf("Between %.0f°C and %.0f°C, humidity %.0f%%.",
			forecast.TempMin, forecast.TempMax, forecast.Humidity*100),
		ImageURL: weather.IconImage(forecast.Icon),
	}))
	return dialog.Complete()
}
