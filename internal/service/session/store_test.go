package session_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/zhouzirui/eventbuddy/internal/model/convo"
	"github.com/zhouzirui/eventbuddy/internal/service/session"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	s, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if s.ID != "conv-1" || s.Authenticated() {
		t.Fatalf("expected fresh default session, got %+v", s)
	}

	s.AuthToken = "tok"
	s.Push("menu", nil)
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	loaded, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if !loaded.Authenticated() {
		t.Fatal("expected token to survive the round trip")
	}
	if loaded.Top() == nil || loaded.Top().Dialog != "menu" {
		t.Fatalf("expected dialog stack to survive, got %+v", loaded.DialogStack)
	}
}

func TestMemoryStoreRequiresConversationID(t *testing.T) {
	store := session.NewMemoryStore()
	ctx := context.Background()

	if _, err := store.Get(ctx, ""); !errors.Is(err, session.ErrConversationRequired) {
		t.Fatalf("expected ErrConversationRequired, got %v", err)
	}
	if err := store.Save(ctx, convo.Session{}); !errors.Is(err, session.ErrConversationRequired) {
		t.Fatalf("expected ErrConversationRequired, got %v", err)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	store, err := session.NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore err: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	s, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}

	s.Username = "Alice"
	s.Preferences.Keyword = "jazz"
	s.Origin = &convo.Origin{Street: "1 Main St", City: "Springfield", PostalCode: "12345"}
	s.RememberEvent("42")
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save err: %v", err)
	}

	loaded, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if loaded.Username != "Alice" || loaded.Preferences.Keyword != "jazz" {
		t.Fatalf("unexpected session after reload: %+v", loaded)
	}
	if loaded.Origin == nil || loaded.Origin.City != "Springfield" {
		t.Fatalf("unexpected origin after reload: %+v", loaded.Origin)
	}
	if !loaded.KnowsEvent("42") {
		t.Fatal("expected known event ids to survive the round trip")
	}
}

func TestSQLiteStoreUpsert(t *testing.T) {
	store, err := session.NewSQLiteStore(filepath.Join(t.TempDir(), "sessions.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore err: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	s := convo.New("conv-1")
	s.Username = "first"
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("Save err: %v", err)
	}
	s.Username = "second"
	if err := store.Save(ctx, s); err != nil {
		t.Fatalf("second Save err: %v", err)
	}

	loaded, err := store.Get(ctx, "conv-1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if loaded.Username != "second" {
		t.Fatalf("expected last write to win, got %q", loaded.Username)
	}
}
