package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/zhouzirui/eventbuddy/internal/dialog"
	"github.com/zhouzirui/eventbuddy/internal/model/convo"
	eventsgw "github.com/zhouzirui/eventbuddy/internal/service/events"
)

// loginStep runs the sign-in exchange: render the sign-in link, collect the
// returned code, trade it for a bearer token. A configured static token
// skips the prompt entirely, which keeps development setups one-turn.
func (s *Service) loginStep(ctx context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		if s.staticToken != "" {
			return s.completeLogin(ctx, t, s.staticToken)
		}

		t.Say(convo.CardMessage(convo.Card{
			Title: "Sign in",
			Body:  "Connect your events account so I can search on your behalf.",
			Buttons: []convo.Button{
				{Kind: convo.ButtonOpenURL, Label: "Sign in", Value: s.events.AuthorizeURL()},
			},
		}))
		return dialog.Prompt("Once you have signed in, paste the code you received here.")
	}

	token, err := s.events.ExchangeCode(ctx, in.Text)
	if err != nil {
		if errors.Is(err, eventsgw.ErrCodeRejected) {
			t.Say(convo.Text("Your code looks wrong, try again."))
			return dialog.Replace(dialogLogin, nil)
		}
		return dialog.Fail(err)
	}

	return s.completeLogin(ctx, t, token)
}

// completeLogin stores the token and greets the user by name when the
// profile lookup succeeds; a failed lookup is not worth blocking login over.
func (s *Service) completeLogin(ctx context.Context, t *dialog.Turn, token string) dialog.Result {
	t.Session.AuthToken = token

	name, err := s.events.Profile(ctx, token)
	if err != nil {
		log.Printf("[bot] profile lookup failed for conversation=%s: %v", t.Session.ID, err)
		t.Say(convo.Text("You're signed in!"))
	} else {
		t.Session.Username = name
		t.Say(convo.Text(fmt.Sprintf("Welcome %s!", name)))
	}

	return dialog.Advance(dialogMenu, nil)
}
