package bot

import (
	"context"
	"strings"

	"github.com/zhouzirui/eventbuddy/internal/dialog"
	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

// The preference dialog collects its five answers into frame arguments and
// only commits them to the session in the final step, so cancelling midway
// carries nothing forward.

func (s *Service) prefKeywordStep(_ context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		return dialog.Prompt("What kind of events are you looking for? Give me a keyword, or say 'no matter'.")
	}

	answer := strings.TrimSpace(in.Text)
	if answer == "" {
		return dialog.Prompt(t.Frame.Question)
	}
	t.Frame.SetArg(argKeyword, answer)
	return dialog.Next()
}

func (s *Service) prefLocationStep(_ context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		return dialog.Prompt("Where should the events be? Name a city or address, or say 'no matter'.")
	}

	answer := strings.TrimSpace(in.Text)
	if answer == "" {
		return dialog.Prompt(t.Frame.Question)
	}
	t.Frame.SetArg(argLocation, answer)
	return dialog.Next()
}

// prefCategoryStep offers the category listing fetched from the events API
// for this conversation, with a synthetic "No Matter" entry appended. An
// answer outside the fetched set re-issues the same choice, it never stores
// a category id.
func (s *Service) prefCategoryStep(ctx context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		categories, err := s.events.Categories(ctx, t.Session.AuthToken)
		if err != nil {
			return dialog.Fail(err)
		}

		choices := make([]string, 0, len(categories)+1)
		lookup := make(map[string]string, len(categories))
		for _, category := range categories {
			choices = append(choices, category.Name)
			lookup[strings.ToLower(category.Name)] = category.ID
		}
		choices = append(choices, string(convo.PriceNoMatter))
		t.Session.CategoryChoices = lookup

		return dialog.Choice("Which category interests you?", choices)
	}

	label := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(in.Text), prefixCategory))
	if convo.IsNoMatter(label) {
		t.Frame.SetArg(argCategoryLabel, string(convo.PriceNoMatter))
		t.Frame.SetArg(argCategoryID, "")
		return dialog.Next()
	}

	id, ok := t.Session.CategoryChoices[strings.ToLower(label)]
	if !ok {
		return dialog.Choice(t.Frame.Question, t.Frame.Choices)
	}

	t.Frame.SetArg(argCategoryLabel, label)
	t.Frame.SetArg(argCategoryID, id)
	return dialog.Next()
}

func (s *Service) prefPriceStep(_ context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		return dialog.Choice("Free events, paid events, or no matter?",
			[]string{string(convo.PriceFree), string(convo.PricePaid), string(convo.PriceNoMatter)})
	}

	price, ok := convo.ParsePrice(in.Text)
	if !ok {
		return dialog.Choice(t.Frame.Question, t.Frame.Choices)
	}
	t.Frame.SetArg(argPrice, string(price))
	return dialog.Next()
}

func (s *Service) prefDateStep(_ context.Context, t *dialog.Turn, in *dialog.Input) dialog.Result {
	if in == nil {
		return dialog.Prompt("From which date on? Use dd/mm/yyyy.")
	}

	parsed, err := convo.ParseDate(in.Text)
	if err != nil {
		return dialog.Prompt(t.Frame.Question)
	}
	t.Frame.SetArg(argDate, parsed)
	return dialog.Next()
}

// prefCommitStep writes the collected answers to the session, shows them,
// and goes straight into suggestions.
func (s *Service) prefCommitStep(_ context.Context, t *dialog.Turn, _ *dialog.Input) dialog.Result {
	t.Session.Preferences = convo.Preferences{
		Keyword:  t.Frame.Arg(argKeyword),
		Location: t.Frame.Arg(argLocation),
		Category: convo.Category{
			ID:    t.Frame.Arg(argCategoryID),
			Label: t.Frame.Arg(argCategoryLabel),
		},
		Price: convo.Price(t.Frame.Arg(argPrice)),
		Date:  t.Frame.Arg(argDate),
	}

	t.Say(convo.Text("Noted! Here is what I'll search with:"))
	t.Say(renderPreferences(t.Session.Preferences))
	return dialog.Advance(dialogSuggest, nil)
}

// getPrefsStep shows the currently stored preferences.
func (s *Service) getPrefsStep(_ context.Context, t *dialog.Turn, _ *dialog.Input) dialog.Result {
	t.Say(renderPreferences(t.Session.Preferences))
	return dialog.Complete()
}

func renderPreferences(p convo.Preferences) convo.Outbound {
	display := func(value string) string {
		if strings.TrimSpace(value) == "" {
			return "not set"
		}
		return value
	}

	category := p.Category.Label
	if category == "" {
		category = p.Category.ID
	}

	lines := []string{
		"Keyword: " + display(p.Keyword),
		"Location: " + display(p.Location),
		"Category: " + display(category),
		"Price: " + display(string(p.Price)),
		"Date: " + display(p.Date),
	}
	return convo.Text(strings.Join(lines, "\n"))
}
