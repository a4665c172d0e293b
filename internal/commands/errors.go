package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors produced by Handler.
const (
	TextCodeValidationFailed = "COMMAND_VALIDATION_FAILED"
	TextCodeContextCanceled  = "COMMAND_CONTEXT_CANCELED"
	TextCodeContextTimeout   = "COMMAND_CONTEXT_TIMEOUT"
	TextCodeContextError     = "COMMAND_CONTEXT_ERROR"
	TextCodeExecuteFailed    = "COMMAND_EXECUTION_FAILED"
)

// Errors already carrying a go-errors category pass through untouched so
// preflight and remote failures keep their own category.

func wrapValidationError(err error) error {
	return wrapUnlessCategorised(err, goerrors.CategoryValidation, "command validation failed", TextCodeValidationFailed)
}

func wrapContextError(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return wrapUnlessCategorised(err, goerrors.CategoryCommand, "command execution cancelled", TextCodeContextCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return wrapUnlessCategorised(err, goerrors.CategoryCommand, "command execution deadline exceeded", TextCodeContextTimeout)
	default:
		return wrapUnlessCategorised(err, goerrors.CategoryCommand, "command context error", TextCodeContextError)
	}
}

func wrapExecuteError(err error) error {
	return wrapUnlessCategorised(err, goerrors.CategoryCommand, "command execution failed", TextCodeExecuteFailed)
}

func wrapUnlessCategorised(err error, category goerrors.Category, message, code string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, category, message).WithTextCode(code)
}
