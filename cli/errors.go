package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldnet/fieldnet/engine/mutate"
	"github.com/fieldnet/fieldnet/engine/query"
	"github.com/fieldnet/fieldnet/engine/transport"
)

// CliError is the structured error printed by every command.
type CliError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
	cause   error
}

func (e *CliError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CliError) Unwrap() error {
	return e.cause
}

func newCliError(code, message string, cause error) *CliError {
	err := &CliError{Code: code, Message: message, cause: cause}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// categorizeError converts errors into structured CLI errors.
func categorizeError(err error) *CliError {
	var cliErr *CliError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	switch {
	case errors.Is(err, context.Canceled):
		return newCliError("OPERATION_CANCELED", "Operation was canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return newCliError("OPERATION_TIMEOUT", "Operation timed out", err)
	case errors.Is(err, transport.ErrValidation):
		e := newCliError("VALIDATION_ERROR", "Request was rejected", err)
		e.Fields = mutate.FieldErrors(err)
		return e
	case errors.Is(err, transport.ErrNetwork):
		return newCliError("NETWORK_ERROR", "Network connection failed", err)
	case errors.Is(err, transport.ErrUnauthorized):
		return newCliError("AUTH_ERROR", "Authentication failed", err)
	case errors.Is(err, transport.ErrNotFound):
		return newCliError("NOT_FOUND", "Record not found", err)
	case errors.Is(err, transport.ErrDecode):
		return newCliError("DECODE_ERROR", "Unexpected response from the backend", err)
	case errors.Is(err, query.ErrUnknownFilter),
		errors.Is(err, query.ErrInvalidPagination),
		errors.Is(err, query.ErrInvalidSort),
		errors.Is(err, mutate.ErrMissingID):
		return newCliError("INVALID_ARGUMENT", "Invalid argument", err)
	case errors.Is(err, transport.ErrStatus):
		return newCliError("API_ERROR", "Backend returned an error", err)
	default:
		return newCliError("ERROR", "Command failed", err)
	}
}
