package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	goerrors "github.com/goliatone/go-errors"
)

type dispatcherTestCommand struct {
	Target string
}

func (dispatcherTestCommand) Type() string { return "blogpub.test.dispatcher" }

func (dispatcherTestCommand) Validate() error { return nil }

type dispatcherFailingCommand struct{}

func (dispatcherFailingCommand) Type() string { return "blogpub.test.dispatcher_failing" }

func (dispatcherFailingCommand) Validate() error { return nil }

func TestDispatcherRoutesMessageToHandler(t *testing.T) {
	t.Parallel()

	var received []string
	handler := NewHandler(func(ctx context.Context, msg dispatcherTestCommand) error {
		received = append(received, msg.Target)
		return nil
	}, WithTimeout[dispatcherTestCommand](0))

	sub := dispatcher.SubscribeCommand(handler)
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), dispatcherTestCommand{Target: "pages"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if len(received) != 1 || received[0] != "pages" {
		t.Fatalf("expected one delivery for pages, got %v", received)
	}
}

func TestDispatcherPropagatesHandlerError(t *testing.T) {
	t.Parallel()

	var attempts int
	handler := NewHandler(func(ctx context.Context, _ dispatcherFailingCommand) error {
		attempts++
		return errors.New("push rejected")
	})

	sub := dispatcher.SubscribeCommand(handler)
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), dispatcherFailingCommand{})
	if err == nil {
		t.Fatal("expected dispatcher to return the handler error")
	}
	if !goerrors.HasCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category to propagate, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}
