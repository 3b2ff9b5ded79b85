package dialog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

// FailureText is the uniform user-visible message for an aborted dialog.
const FailureText = "Sorry, the last action failed. Please try again later."

const cancelQuestion = "Do you really want to cancel?"

// maxTransitions bounds one processing cycle so a miswired dialog graph
// cannot spin the engine forever.
const maxTransitions = 16

var (
	ErrUnknownDialog = errors.New("dialog: unknown dialog")
	ErrNotWaiting    = errors.New("dialog: no suspended prompt to resume")
)

// Engine executes dialogs against a session's dialog stack. One Engine is
// shared by all conversations; all per-conversation state lives in the
// Session the caller passes in.
type Engine struct {
	registry    *Registry
	loginDialog string
}

// NewEngine builds an engine over the registry. loginDialog names the dialog
// auth-gated starts are redirected to.
func NewEngine(registry *Registry, loginDialog string) *Engine {
	return &Engine{registry: registry, loginDialog: loginDialog}
}

// Trigger abandons whatever was on the stack and starts the named dialog,
// the way an intent trigger re-enters a conversation from the top.
func (e *Engine) Trigger(ctx context.Context, s *convo.Session, name string, args map[string]string) ([]convo.Outbound, error) {
	s.DialogStack = nil
	if err := e.push(s, name, args); err != nil {
		return nil, err
	}
	return e.run(ctx, s, nil)
}

// Resume delivers a user reply to the suspended prompt on top of the stack.
func (e *Engine) Resume(ctx context.Context, s *convo.Session, text string) ([]convo.Outbound, error) {
	frame := s.Top()
	if frame == nil || !frame.Waiting {
		return nil, ErrNotWaiting
	}

	d, ok := e.registry.Get(frame.Dialog)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDialog, frame.Dialog)
	}

	if frame.CancelPending {
		return e.resolveCancel(s, frame, text), nil
	}

	if d.CancelMatcher != nil && d.CancelMatcher(text) {
		frame.CancelPending = true
		return []convo.Outbound{convo.QuickReplies(cancelQuestion, yesNoButtons())}, nil
	}

	return e.run(ctx, s, &Input{Text: text})
}

// resolveCancel handles the reply to a pending cancel confirmation: an
// affirmative pops the frame and abandons its collected data, anything
// recognizably negative re-issues the interrupted prompt.
func (e *Engine) resolveCancel(s *convo.Session, frame *convo.Frame, text string) []convo.Outbound {
	switch {
	case IsAffirmative(text):
		s.Pop()
		return []convo.Outbound{convo.Text("Okay, I cancelled that.")}
	case IsNegative(text):
		frame.CancelPending = false
		return []convo.Outbound{renderPrompt(frame.Question, frame.Choices)}
	default:
		return []convo.Outbound{convo.QuickReplies(cancelQuestion, yesNoButtons())}
	}
}

// run executes steps until the stack suspends on a prompt, empties, or a
// dialog completes. The input, if any, is consumed by the first step only.
func (e *Engine) run(ctx context.Context, s *convo.Session, in *Input) ([]convo.Outbound, error) {
	var out []convo.Outbound

	for i := 0; i < maxTransitions; i++ {
		frame := s.Top()
		if frame == nil {
			return out, nil
		}

		d, ok := e.registry.Get(frame.Dialog)
		if !ok {
			return out, fmt.Errorf("%w: %s", ErrUnknownDialog, frame.Dialog)
		}
		if frame.Step >= len(d.Steps) {
			// Stepping past the end completes the dialog.
			s.Pop()
			return out, nil
		}

		turn := &Turn{Session: s, Frame: frame, out: &out}
		result := d.Steps[frame.Step](ctx, turn, in)
		in = nil

		switch result.kind {
		case kindPrompt:
			frame.Waiting = true
			frame.Question = result.question
			frame.Choices = result.choices
			out = append(out, renderPrompt(result.question, result.choices))
			return out, nil

		case kindNext:
			frame.Waiting = false
			frame.Question = ""
			frame.Choices = nil
			frame.Step++

		case kindAdvance:
			frame.Waiting = false
			if err := e.push(s, result.dialog, result.args); err != nil {
				return out, err
			}

		case kindReplace:
			s.Pop()
			if err := e.push(s, result.dialog, result.args); err != nil {
				return out, err
			}

		case kindComplete:
			s.Pop()
			// Completing a child never auto-resumes its parent; the parent
			// is only re-entered through a fresh trigger.
			return out, nil

		case kindFail:
			log.Printf("[dialog] %s step %d failed: %v", frame.Dialog, frame.Step, result.reason)
			s.Pop()
			out = append(out, convo.Text(FailureText))
			return out, nil

		default:
			return out, fmt.Errorf("dialog: %s step %d returned invalid result", frame.Dialog, frame.Step)
		}
	}

	return out, fmt.Errorf("dialog: transition limit reached on %s", s.ID)
}

// push places the named dialog on the stack, redirecting to the login
// dialog when it requires authorization the session does not yet carry.
func (e *Engine) push(s *convo.Session, name string, args map[string]string) error {
	d, ok := e.registry.Get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDialog, name)
	}

	if d.RequiresAuth && !s.Authenticated() {
		login, ok := e.registry.Get(e.loginDialog)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownDialog, e.loginDialog)
		}
		s.Push(login.Name, nil)
		return nil
	}

	s.Push(name, args)
	return nil
}

func renderPrompt(question string, choices []string) convo.Outbound {
	if len(choices) == 0 {
		return convo.Text(question)
	}

	buttons := make([]convo.Button, 0, len(choices))
	for _, choice := range choices {
		buttons = append(buttons, convo.Button{
			Kind:  convo.ButtonReply,
			Label: choice,
			Value: choice,
		})
	}
	return convo.QuickReplies(question, buttons)
}

func yesNoButtons() []convo.Button {
	return []convo.Button{
		{Kind: convo.ButtonReply, Label: "Yes", Value: "Yes"},
		{Kind: convo.ButtonReply, Label: "No", Value: "No"},
	}
}

// IsAffirmative recognizes the accepted spellings of "yes".
func IsAffirmative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "yes", "y", "yeah", "yep", "sure", "ok", "okay":
		return true
	}
	return false
}

// IsNegative recognizes the accepted spellings of "no".
func IsNegative(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "no", "n", "nope", "nah":
		return true
	}
	return false
}
