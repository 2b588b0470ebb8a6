package core

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a runtime failure into the fixed taxonomy shared by the
// audit trail, the error log and the wire envelope.
type Kind string

const (
	// KindValidation marks a payload whose required fields are missing or
	// carry the wrong type.
	KindValidation Kind = "validation"
	// KindNotFound marks a lookup for a store id that does not exist.
	KindNotFound Kind = "not_found"
	// KindUnknownAction marks a dispatch for an action name absent from the
	// registry.
	KindUnknownAction Kind = "unknown_action"
	// KindExecution marks any other handler failure.
	KindExecution Kind = "execution"
)

// ErrNotFound is the sentinel wrapped by store lookups when a record for the
// given namespace / id pair does not exist.
var ErrNotFound = errors.New("record not found")

// Error is the typed failure value flowing through handlers, the reporter
// and the dispatcher. Handlers may return an *Error directly to control the
// kind; plain errors are classified as execution failures.
type Error struct {
	Kind    Kind           `json:"kind"`              // Taxonomy classification
	Action  string         `json:"action"`            // Action being dispatched when the failure occurred
	Message string         `json:"message"`           // Human-readable error message
	Details map[string]any `json:"details,omitempty"` // Additional structured context
}

func (e *Error) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s error in %s: %s", e.Kind, e.Action, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// NewValidationError creates a validation failure carrying the individual
// schema violations.
func NewValidationError(action string, violations []string) *Error {
	return &Error{
		Kind:    KindValidation,
		Action:  action,
		Message: fmt.Sprintf("payload validation failed: %d violation(s)", len(violations)),
		Details: map[string]any{"violations": violations},
	}
}

// NewUnknownActionError creates the failure returned for an unregistered
// action name. The details enumerate every registered action so callers can
// self-correct.
func NewUnknownActionError(action string, available []string) *Error {
	return &Error{
		Kind:    KindUnknownAction,
		Action:  action,
		Message: fmt.Sprintf("Unknown action: %s", action),
		Details: map[string]any{"available_actions": available},
	}
}

// NewExecutionError wraps an arbitrary failure message as an execution error.
func NewExecutionError(action, message string) *Error {
	return &Error{Kind: KindExecution, Action: action, Message: message}
}

// Classify maps an arbitrary handler error onto the taxonomy. Typed *Error
// values pass through with their kind intact; errors wrapping ErrNotFound
// become not_found; everything else is an execution failure.
func Classify(action string, err error) *Error {
	var typed *Error
	if errors.As(err, &typed) {
		if typed.Action == "" {
			typed.Action = action
		}
		return typed
	}
	if errors.Is(err, ErrNotFound) {
		return &Error{Kind: KindNotFound, Action: action, Message: err.Error()}
	}
	return &Error{Kind: KindExecution, Action: action, Message: err.Error()}
}

// ErrorRecord is one uniquely identified failure occurrence as kept in the
// error log and mirrored into the audit trail.
type ErrorRecord struct {
	ErrorID   string    `json:"error_id"`
	Action    string    `json:"action"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}
