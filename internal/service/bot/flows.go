package bot

import (
	"context"
	"strings"

	"github.com/zhouzirui/eventbuddy/internal/dialog"
	"github.com/zhouzirui/eventbuddy/internal/intent"
	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

// Dialog names. Postback payloads and trigger phrases below are part of the
// channel contract; renaming them breaks buttons already rendered to users.
const (
	dialogRoot        = "root"
	dialogLogin       = "login"
	dialogMenu        = "menu"
	dialogUpdatePrefs = "update-preferences"
	dialogGetPrefs    = "get-preferences"
	dialogSuggest     = "suggest-events"
	dialogWeather     = "weather"
	dialogItinerary   = "itinerary"
	dialogAskPosition = "ask-position"
	dialogMap         = "google-map"
)

// Postback payload prefixes.
const (
	prefixWeather   = "weather:"
	prefixItinerary = "itinerary:"
	prefixCategory  = "category:"
)

// Frame argument keys.
const (
	argEventID       = "eventId"
	argKeyword       = "keyword"
	argLocation      = "location"
	argCategoryID    = "categoryId"
	argCategoryLabel = "categoryLabel"
	argPrice         = "price"
	argDate          = "date"
	argStreet        = "street"
	argCity          = "city"
	argPostalCode    = "postalCode"
	argTravelMode    = "travelMode"
)

// registerDialogs places every dialog of the conversation graph into the
// registry. Step semantics live in the per-flow files.
func (s *Service) registerDialogs(r *dialog.Registry) {
	r.MustRegister(&dialog.Dialog{
		Name:  dialogRoot,
		Steps: []dialog.StepFunc{s.rootStep},
	})
	r.MustRegister(&dialog.Dialog{
		Name:  dialogLogin,
		Steps: []dialog.StepFunc{s.loginStep},
	})
	r.MustRegister(&dialog.Dialog{
		Name:  dialogMenu,
		Steps: []dialog.StepFunc{s.menuStep},
	})
	r.MustRegister(&dialog.Dialog{
		Name:          dialogUpdatePrefs,
		RequiresAuth:  true,
		CancelMatcher: matchCancel,
		Steps: []dialog.StepFunc{
			s.prefKeywordStep,
			s.prefLocationStep,
			s.prefCategoryStep,
			s.prefPriceStep,
			s.prefDateStep,
			s.prefCommitStep,
		},
	})
	r.MustRegister(&dialog.Dialog{
		Name:  dialogGetPrefs,
		Steps: []dialog.StepFunc{s.getPrefsStep},
	})
	r.MustRegister(&dialog.Dialog{
		Name:         dialogSuggest,
		RequiresAuth: true,
		Steps:        []dialog.StepFunc{s.suggestStep},
	})
	r.MustRegister(&dialog.Dialog{
		Name:         dialogWeather,
		RequiresAuth: true,
		Steps:        []dialog.StepFunc{s.weatherStep},
	})
	r.MustRegister(&dialog.Dialog{
		Name:         dialogItinerary,
		RequiresAuth: true,
		Steps:        []dialog.StepFunc{s.itineraryStep},
	})
	r.MustRegister(&dialog.Dialog{
		Name:          dialogAskPosition,
		CancelMatcher: matchCancel,
		Steps: []dialog.StepFunc{
			s.positionStreetStep,
			s.positionCityStep,
			s.positionPostalStep,
			s.positionCommitStep,
		},
	})
	r.MustRegister(&dialog.Dialog{
		Name:         dialogMap,
		RequiresAuth: true,
		Steps:        []dialog.StepFunc{s.mapModeStep, s.mapLinkStep},
	})
}

// triggers is the fixed activation table; rows are mutually exclusive and
// the first match wins. The category postback never appears here because it
// only ever answers a pending prompt.
func (s *Service) triggers() []intent.Trigger {
	return []intent.Trigger{
		{
			Phrases: []string{"hi", "hello", "hey", "greeting", "get started"},
			Label:   "greeting",
			Dialog:  dialogRoot,
		},
		{
			Phrases: []string{"update preferences", "update my preferences"},
			Label:   "update-preferences",
			Dialog:  dialogUpdatePrefs,
		},
		{
			Phrases: []string{"get preferences", "show my preferences"},
			Label:   "get-preferences",
			Dialog:  dialogGetPrefs,
		},
		{
			Phrases: []string{"suggest me events", "suggest events"},
			Label:   "suggest-events",
			Dialog:  dialogSuggest,
		},
		{Prefix: prefixWeather, ArgKey: argEventID, Dialog: dialogWeather},
		{Prefix: prefixItinerary, ArgKey: argEventID, Dialog: dialogItinerary},
	}
}

// matchCancel recognizes the phrases that interrupt a data-collection dialog.
func matchCancel(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "cancel", "nevermind", "never mind", "stop":
		return true
	}
	return false
}

// rootStep greets a new conversation: straight to the menu when a token is
// already stored, otherwise through login first.
func (s *Service) rootStep(_ context.Context, t *dialog.Turn, _ *dialog.Input) dialog.Result {
	if t.Session.Authenticated() {
		return dialog.Advance(dialogMenu, nil)
	}
	return dialog.Advance(dialogLogin, nil)
}

// menuStep renders the welcome card with the three entry actions.
func (s *Service) menuStep(_ context.Context, t *dialog.Turn, _ *dialog.Input) dialog.Result {
	greeting := "Hi! I can help you find events, check the weather for them, and plan how to get there."
	if t.Session.Username != "" {
		greeting = "Hi " + t.Session.Username + "! I can help you find events, check the weather for them, and plan how to get there."
	}

	t.Say(convo.CardMessage(convo.Card{
		Title: "EventBuddy",
		Body:  greeting,
		Buttons: []convo.Button{
			{Kind: convo.ButtonReply, Label: "Update preferences", Value: "update preferences"},
			{Kind: convo.ButtonReply, Label: "Get preferences", Value: "get preferences"},
			{Kind: convo.ButtonReply, Label: "Suggest me events", Value: "suggest me events"},
		},
	}))
	return dialog.Complete()
}
