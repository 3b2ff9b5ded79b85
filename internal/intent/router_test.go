package intent_test

import (
	"context"
	"testing"

	"github.com/zhouzirui/eventbuddy/internal/intent"
	"github.com/zhouzirui/eventbuddy/internal/model/convo"
)

func testTriggers() []intent.Trigger {
	return []intent.Trigger{
		{Phrases: []string{"hello", "hi"}, Dialog: "root"},
		{Phrases: []string{"suggest me events"}, Label: "suggest_events", Dialog: "suggest"},
		{Prefix: "weather:", ArgKey: "eventId", Dialog: "weather"},
	}
}

type stubRecognizer struct {
	label  string
	ok     bool
	called bool
}

func (r *stubRecognizer) Recognize(_ context.Context, _ string, _ []string) (string, bool) {
	r.called = true
	return r.label, r.ok
}

func TestRoutePendingPromptWins(t *testing.T) {
	router := intent.NewRouter(testTriggers(), nil)
	s := convo.New("conv-1")
	s.Push("ask-keyword", nil)
	s.Top().Waiting = true

	// Even an exact trigger phrase is treated as the answer to the prompt.
	target := router.Route(context.Background(), convo.Inbound{Type: convo.InboundMessage, Text: "hello"}, &s)
	if target.Kind != intent.TargetResume {
		t.Fatalf("expected resume, got %+v", target)
	}
}

func TestRoutePhraseMatch(t *testing.T) {
	router := intent.NewRouter(testTriggers(), nil)
	s := convo.New("conv-1")

	target := router.Route(context.Background(), convo.Inbound{Type: convo.InboundMessage, Text: "  Suggest Me Events "}, &s)
	if target.Kind != intent.TargetStart || target.Dialog != "suggest" {
		t.Fatalf("unexpected target: %+v", target)
	}
}

func TestRoutePrefixExtractsValueLosslessly(t *testing.T) {
	router := intent.NewRouter(testTriggers(), nil)
	s := convo.New("conv-1")

	in := convo.Inbound{Type: convo.InboundPostback, Value: "weather:evt-42:extra"}
	target := router.Route(context.Background(), in, &s)
	if target.Kind != intent.TargetStart || target.Dialog != "weather" {
		t.Fatalf("unexpected target: %+v", target)
	}
	if got := target.Args["eventId"]; got != "evt-42:extra" {
		t.Fatalf("value extraction must be lossless, got %q", got)
	}
}

func TestRouteMalformedPostbackFallsThrough(t *testing.T) {
	router := intent.NewRouter(testTriggers(), nil)
	s := convo.New("conv-1")

	in := convo.Inbound{Type: convo.InboundPostback, Value: "weather: "}
	target := router.Route(context.Background(), in, &s)
	if target.Kind != intent.TargetFallback {
		t.Fatalf("expected fallback for empty payload, got %+v", target)
	}
}

func TestRouteRecognizerLabelMatch(t *testing.T) {
	recognizer := &stubRecognizer{label: "suggest_events", ok: true}
	router := intent.NewRouter(testTriggers(), recognizer)
	s := convo.New("conv-1")

	in := convo.Inbound{Type: convo.InboundMessage, Text: "got anything fun going on?"}
	target := router.Route(context.Background(), in, &s)
	if target.Kind != intent.TargetStart || target.Dialog != "suggest" {
		t.Fatalf("unexpected target: %+v", target)
	}
	if !recognizer.called {
		t.Fatal("expected the recognizer to be consulted")
	}
}

func TestRouteRecognizerUnknownLabelFallsBack(t *testing.T) {
	router := intent.NewRouter(testTriggers(), &stubRecognizer{label: "order_pizza", ok: true})
	s := convo.New("conv-1")

	in := convo.Inbound{Type: convo.InboundMessage, Text: "gibberish"}
	if target := router.Route(context.Background(), in, &s); target.Kind != intent.TargetFallback {
		t.Fatalf("expected fallback for unknown label, got %+v", target)
	}
}

func TestRouteRecognizerSkippedForPostbacks(t *testing.T) {
	recognizer := &stubRecognizer{label: "suggest_events", ok: true}
	router := intent.NewRouter(testTriggers(), recognizer)
	s := convo.New("conv-1")

	in := convo.Inbound{Type: convo.InboundPostback, Value: "unknown:payload"}
	if target := router.Route(context.Background(), in, &s); target.Kind != intent.TargetFallback {
		t.Fatalf("expected fallback, got %+v", target)
	}
	if recognizer.called {
		t.Fatal("postbacks must not reach the recognizer")
	}
}

func TestRouteFallback(t *testing.T) {
	router := intent.NewRouter(testTriggers(), nil)
	s := convo.New("conv-1")

	in := convo.Inbound{Type: convo.InboundMessage, Text: "what is the meaning of life"}
	if target := router.Route(context.Background(), in, &s); target.Kind != intent.TargetFallback {
		t.Fatalf("expected fallback, got %+v", target)
	}
}
