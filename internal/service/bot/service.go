package bot

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/zhouzirui/eventbuddy/internal/dialog"
	"github.com/zhouzirui/eventbuddy/internal/intent"
	"github.com/zhouzirui/eventbuddy/internal/model/convo"
	"github.com/zhouzirui/eventbuddy/internal/model/events"
	"github.com/zhouzirui/eventbuddy/internal/model/weather"
	session "github.com/zhouzirui/eventbuddy/internal/service/session"
)

// FallbackText answers turns no trigger and no pending prompt could claim.
const FallbackText = "Hmmm.. I didn't understand that. Can you say it differently?"

var ErrConversationRequired = errors.New("bot: conversation id is required")

// EventsAPI is the slice of the events gateway the dialogs consume.
type EventsAPI interface {
	AuthorizeURL() string
	ExchangeCode(ctx context.Context, code string) (string, error)
	Profile(ctx context.Context, token string) (string, error)
	Categories(ctx context.Context, token string) ([]events.Category, error)
	Search(ctx context.Context, token string, query events.SearchQuery) ([]events.Event, error)
	EventByID(ctx context.Context, token, eventID string) (events.Event, error)
}

// WeatherAPI is the slice of the weather gateway the dialogs consume.
type WeatherAPI interface {
	Forecast(ctx context.Context, latitude, longitude string, dayOffset int) (weather.Forecast, error)
}

// Service is the conversation loop: one inbound turn in, zero or more
// outbound message descriptors out. Turns for the same conversation are
// strictly serialized; different conversations proceed independently.
type Service struct {
	store       session.Store
	events      EventsAPI
	weather     WeatherAPI
	engine      *dialog.Engine
	router      *intent.Router
	staticToken string
	now         func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures the bot service.
type Option func(*Service)

// WithStaticToken short-circuits the login dialog with a fixed development
// bearer token.
func WithStaticToken(token string) Option {
	return func(s *Service) { s.staticToken = token }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the dialog registry, engine, and router over the given
// collaborators. recognizer may be nil.
func NewService(store session.Store, eventsAPI EventsAPI, weatherAPI WeatherAPI, recognizer intent.Recognizer, opts ...Option) *Service {
	s := &Service{
		store:   store,
		events:  eventsAPI,
		weather: weatherAPI,
		now:     func() time.Time { return time.Now().UTC() },
		locks:   make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}

	registry := dialog.NewRegistry()
	s.registerDialogs(registry)
	s.engine = dialog.NewEngine(registry, dialogLogin)
	s.router = intent.NewRouter(s.triggers(), recognizer)
	return s
}

// HandleTurn fully processes one inbound message for its conversation and
// returns the messages to render. Gateway and engine failures never escape:
// they surface as the generic failure text with the pre-turn dialog stack
// intact so the user can retry.
func (s *Service) HandleTurn(ctx context.Context, in convo.Inbound) ([]convo.Outbound, error) {
	if in.ConversationID == "" {
		return nil, ErrConversationRequired
	}

	unlock := s.lockConversation(in.ConversationID)
	defer unlock()

	sess, err := s.store.Get(ctx, in.ConversationID)
	if err != nil {
		return nil, err
	}

	preStack := append([]convo.Frame(nil), sess.DialogStack...)

	var out []convo.Outbound
	var turnErr error

	if in.Type == convo.InboundStart {
		out, turnErr = s.engine.Trigger(ctx, &sess, dialogRoot, nil)
	} else {
		target := s.router.Route(ctx, in, &sess)
		switch target.Kind {
		case intent.TargetResume:
			out, turnErr = s.engine.Resume(ctx, &sess, in.Content())
		case intent.TargetStart:
			out, turnErr = s.engine.Trigger(ctx, &sess, target.Dialog, target.Args)
		default:
			// Fallback mutates nothing, not even the stored session.
			return []convo.Outbound{convo.Text(FallbackText)}, nil
		}
	}

	if turnErr != nil {
		log.Printf("[bot] turn failed for conversation=%s: %v", in.ConversationID, turnErr)
		sess.DialogStack = preStack
		out = []convo.Outbound{convo.Text(dialog.FailureText)}
	}

	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return out, nil
}

// lockConversation takes the per-conversation mutex, creating it on first
// contact. The returned func releases it.
func (s *Service) lockConversation(conversationID string) func() {
	s.mu.Lock()
	lock, ok := s.locks[conversationID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[conversationID] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
