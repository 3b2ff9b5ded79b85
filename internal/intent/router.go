package intent

import (
	"context"
	"log"
	"strings"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

// TargetKind says how the conversation loop should dispatch a turn.
type TargetKind int

const (
	// TargetResume delivers the turn to the suspended prompt on the stack.
	TargetResume TargetKind = iota
	// TargetStart triggers a dialog from the top.
	TargetStart
	// TargetFallback means nothing matched; answer with the default
	// "didn't understand" reply and leave all state untouched.
	TargetFallback
)

// Target is the routing decision for one inbound turn.
type Target struct {
	Kind   TargetKind
	Dialog string
	Args   map[string]string
}

// Trigger is one row of the fixed activation table. Rows are mutually
// exclusive by construction; the first match wins.
type Trigger struct {
	// Phrases are exact, case-insensitive utterance matches.
	Phrases []string
	// Prefix matches a structured postback payload such as "weather:<id>";
	// the single field after the prefix is extracted losslessly.
	Prefix string
	// ArgKey names the dialog argument the extracted field is passed under.
	ArgKey string
	// Label is the NLU intent label that also activates this trigger.
	Label  string
	Dialog string
}

// Recognizer is the optional NLU collaborator consulted for free text that
// no table row matched. Labels is the set of known trigger labels.
type Recognizer interface {
	Recognize(ctx context.Context, utterance string, labels []string) (string, bool)
}

// Router resolves an inbound turn to the dialog that should receive it.
type Router struct {
	triggers   []Trigger
	recognizer Recognizer
	labels     []string
}

// NewRouter builds a router over the trigger table. recognizer may be nil.
func NewRouter(triggers []Trigger, recognizer Recognizer) *Router {
	labels := make([]string, 0, len(triggers))
	for _, t := range triggers {
		if t.Label != "" {
			labels = append(labels, t.Label)
		}
	}
	return &Router{triggers: triggers, recognizer: recognizer, labels: labels}
}

// Route decides where one inbound turn goes. Resolution order: a pending
// prompt on the session's stack wins, then the trigger table, then the NLU
// recognizer, then the fallback.
func (r *Router) Route(ctx context.Context, in convo.Inbound, s *convo.Session) Target {
	if top := s.Top(); top != nil && top.Waiting {
		return Target{Kind: TargetResume}
	}

	content := strings.TrimSpace(in.Content())
	normalized := strings.ToLower(content)

	for _, trigger := range r.triggers {
		for _, phrase := range trigger.Phrases {
			if normalized == phrase {
				return Target{Kind: TargetStart, Dialog: trigger.Dialog}
			}
		}

		if trigger.Prefix != "" && strings.HasPrefix(content, trigger.Prefix) {
			value := strings.TrimSpace(strings.TrimPrefix(content, trigger.Prefix))
			if value == "" {
				// Malformed payload: fail the route rather than guess.
				log.Printf("[intent] malformed postback payload %q", content)
				continue
			}
			return Target{
				Kind:   TargetStart,
				Dialog: trigger.Dialog,
				Args:   map[string]string{trigger.ArgKey: value},
			}
		}
	}

	if r.recognizer != nil && in.Type == convo.InboundMessage && content != "" {
		if label, ok := r.recognizer.Recognize(ctx, content, r.labels); ok {
			for _, trigger := range r.triggers {
				if trigger.Label != "" && trigger.Label == label {
					return Target{Kind: TargetStart, Dialog: trigger.Dialog}
				}
			}
		}
	}

	return Target{Kind: TargetFallback}
}
