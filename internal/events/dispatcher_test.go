package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherInvokesSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	ctx := context.Background()

	var seen []string
	d.Subscribe(EventIssueCreated, func(_ context.Context, event Event) error {
		seen = append(seen, event.ID)
		return nil
	})
	d.Subscribe(EventIssueCreated, func(_ context.Context, event Event) error {
		seen = append(seen, event.ID+"-second")
		return nil
	})

	if err := d.Publish(ctx, Event{ID: "e1", Type: EventIssueCreated}); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 2 || seen[0] != "e1" || seen[1] != "e1-second" {
		t.Fatalf("unexpected handler invocations: %v", seen)
	}
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()

	called := false
	d.Subscribe(EventCommentAdded, func(context.Context, Event) error {
		called = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{ID: "e2", Type: EventIssueStatusChanged}); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Fatal("handler for a different event type must not run")
	}
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher()

	second := false
	d.Subscribe(EventAdminRoleChanged, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventAdminRoleChanged, func(context.Context, Event) error {
		second = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventAdminRoleChanged}); err != nil {
		t.Fatal(err)
	}
	if !second {
		t.Fatal("second handler must run despite first handler error")
	}
}
