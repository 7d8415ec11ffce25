package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
)

type retryCommand struct{}

func (retryCommand) Type() string { return "cms.test.dispatcher.retry" }

func (retryCommand) Validate() error { return nil }

type exhaustCommand struct{}

func (exhaustCommand) Type() string { return "cms.test.dispatcher.exhaust" }

func (exhaustCommand) Validate() error { return nil }

func TestDispatcherRetriesUntilSuccess(t *testing.T) {
	t.Parallel()

	var attempts int
	handler := NewHandler(func(ctx context.Context, _ retryCommand) error {
		attempts++
		if attempts == 1 {
			return errors.New("transient failure")
		}
		return nil
	}, WithTimeout[retryCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), retryCommand{}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestDispatcherRetryExhaustionPropagatesError(t *testing.T) {
	t.Parallel()

	var attempts int
	handler := NewHandler(func(ctx context.Context, _ exhaustCommand) error {
		attempts++
		return errors.New("permanent failure")
	}, WithTimeout[exhaustCommand](time.Second))

	sub := dispatcher.SubscribeCommand(handler, runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	if err := dispatcher.Dispatch(context.Background(), exhaustCommand{}); err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}
