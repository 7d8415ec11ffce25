package commands

import (
	"context"
	"time"

	"github.com/goliatone/go-cms-zones/internal/logging"
	"github.com/goliatone/go-cms-zones/pkg/interfaces"
	command "github.com/goliatone/go-command"
)

// DefaultTimeout bounds a single command execution.
const DefaultTimeout = 30 * time.Second

// HandlerOption configures a Handler.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler runs a command function behind message validation, a timeout,
// structured logging and go-errors categorisation. It satisfies
// command.Commander[T].
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
}

// NewHandler wraps fn. It panics when fn is nil.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:    fn,
		logger:  logging.NoOp(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute validates msg, then runs the wrapped function under the handler
// timeout.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	fields := map[string]any{"command": command.GetMessageType(msg)}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for k, v := range h.fields(msg) {
			fields[k] = v
		}
	}
	logger := logging.WithFields(h.logger.WithContext(ctx), fields)
	logger.Debug("command.execute.start")
	started := time.Now()

	if err := h.exec(ctx, msg); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			logger.Error("command.execute.context_error", "duration_ms", time.Since(started).Milliseconds(), "error", ctxErr)
			return wrapContextError(ctxErr)
		}
		logger.Error("command.execute.failed", "duration_ms", time.Since(started).Milliseconds(), "error", err)
		return wrapExecuteError(err)
	}

	logger.Info("command.execute.success", "duration_ms", time.Since(started).Milliseconds())
	return nil
}

// WithTimeout overrides DefaultTimeout. Zero or negative disables it.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.timeout = max(timeout, 0)
	}
}

// WithLogger sets the execution logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.OrNoOp(logger)
	}
}

// WithOperation names the operation in every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds message derived fields to every log entry.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

func (h *Handler[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}
