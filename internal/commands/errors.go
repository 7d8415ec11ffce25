package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeValidation    = "COMMAND_VALIDATION_FAILED"
	textCodeCanceled      = "COMMAND_CONTEXT_CANCELED"
	textCodeTimeout       = "COMMAND_CONTEXT_TIMEOUT"
	textCodeContextError  = "COMMAND_CONTEXT_ERROR"
	textCodeExecuteFailed = "COMMAND_EXECUTION_FAILED"
)

// Errors already carrying a go-errors category keep it; the admin façade
// categorises not-found, conflict and validation failures itself.

func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.FromOzzoValidation(err, "command validation failed").
		WithTextCode(textCodeValidation)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution cancelled").
			WithTextCode(textCodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution deadline exceeded").
			WithTextCode(textCodeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command context error").
			WithTextCode(textCodeContextError)
	}
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command execution failed").
		WithTextCode(textCodeExecuteFailed)
}
