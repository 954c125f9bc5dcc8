package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var calls []string
	d.Subscribe(EventLoggedOut, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventLoggedOut, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventLoggedIn, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	if err := d.Publish(context.Background(), NewEvent(EventLoggedOut, Actor{}, nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("calls = %v", calls)
	}
}

func TestNewEventStampsIDs(t *testing.T) {
	a := NewEvent(EventLoggedIn, Actor{UserID: 1}, nil)
	b := NewEvent(EventLoggedIn, Actor{UserID: 1}, nil)
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("expected unique ids, got %q and %q", a.ID, b.ID)
	}
	if a.Timestamp.IsZero() {
		t.Fatal("expected timestamp")
	}
}

func TestDispatcherRecoversHandlerPanic(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	reached := false
	d.Subscribe(EventSessionExpired, func(context.Context, Event) error {
		panic("listener bug")
	})
	d.Subscribe(EventSessionExpired, func(context.Context, Event) error {
		reached = true
		return nil
	})

	if err := d.Publish(context.Background(), NewEvent(EventSessionExpired, Actor{UserID: 3}, nil)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !reached {
		t.Fatal("handler after a panicking one was skipped")
	}
}

func TestDispatcherUnsubscribe(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var calls []string
	stopA := d.Subscribe(EventLoggedIn, func(context.Context, Event) error {
		calls = append(calls, "a")
		return nil
	})
	d.Subscribe(EventLoggedIn, func(context.Context, Event) error {
		calls = append(calls, "b")
		return nil
	})

	stopA()
	stopA()
	_ = d.Publish(context.Background(), NewEvent(EventLoggedIn, Actor{}, nil))
	if len(calls) != 1 || calls[0] != "b" {
		t.Fatalf("calls = %v", calls)
	}
}
