package dialog

import (
	"context"
	"fmt"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

// Input wraps the user's reply delivered to a suspended step. Steps receive
// a nil Input when they are entered for the first time.
type Input struct {
	Text string
}

// StepFunc is one unit of dialog execution: read the session, maybe call a
// gateway, return the next transition.
type StepFunc func(ctx context.Context, t *Turn, in *Input) Result

// Dialog is a named, ordered step sequence with its engine-level policies.
type Dialog struct {
	Name  string
	Steps []StepFunc
	// RequiresAuth redirects to the login dialog when no token is stored.
	RequiresAuth bool
	// CancelMatcher, when set, is checked against replies to this dialog's
	// suspended prompts; a match starts the cancel-confirmation exchange.
	CancelMatcher func(text string) bool
}

// Registry maps dialog names to their definitions.
type Registry struct {
	dialogs map[string]*Dialog
}

// NewRegistry returns an empty dialog registry.
func NewRegistry() *Registry {
	return &Registry{dialogs: make(map[string]*Dialog)}
}

// Register adds a dialog. Registering a duplicate or empty name is a
// programming error.
func (r *Registry) Register(d *Dialog) error {
	if d == nil || d.Name == "" {
		return fmt.Errorf("dialog: cannot register unnamed dialog")
	}
	if len(d.Steps) == 0 {
		return fmt.Errorf("dialog: %s has no steps", d.Name)
	}
	if _, exists := r.dialogs[d.Name]; exists {
		return fmt.Errorf("dialog: %s registered twice", d.Name)
	}
	r.dialogs[d.Name] = d
	return nil
}

// MustRegister is Register for static wiring at startup.
func (r *Registry) MustRegister(d *Dialog) {
	if err := r.Register(d); err != nil {
		panic(err)
	}
}

// Get looks up a dialog by name.
func (r *Registry) Get(name string) (*Dialog, bool) {
	d, ok := r.dialogs[name]
	return d, ok
}

// Turn gives steps access to the session, the current frame, and the
// outbound message buffer for this processing cycle.
type Turn struct {
	Session *convo.Session
	Frame   *convo.Frame
	out     *[]convo.Outbound
}

// Say queues outbound messages to be rendered before whatever the step's
// result renders.
func (t *Turn) Say(messages ...convo.Outbound) {
	*t.out = append(*t.out, messages...)
}
