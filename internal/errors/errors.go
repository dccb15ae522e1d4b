// Package errors provides the typed error taxonomy for query execution.
// Every failure a runner reports is a *QueryError carrying a Kind and a
// human-readable message; errors are returned as data, never panics, and
// the core never retries on its own.
package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a query execution failure.
type Kind string

const (
	// KindConnection means the session to the remote engine could not be
	// established or its parameters were rejected.
	KindConnection Kind = "connection"

	// KindRemote means the engine accepted the session but reported a
	// failure executing the submitted query.
	KindRemote Kind = "remote"

	// KindCancelled means cancellation was requested while the query was in
	// flight. It takes precedence over anything the engine reports afterwards.
	KindCancelled Kind = "cancelled"

	// KindSchemaDiscovery means the catalog query used for schema
	// introspection failed. No partial schema is ever returned.
	KindSchemaDiscovery Kind = "schema_discovery"

	// KindUnexpected covers every other failure during execution.
	KindUnexpected Kind = "unexpected"
)

// CancelledMessage is the exact message reported for user cancellation.
const CancelledMessage = "Query cancelled by user."

// QueryError is the structured error surfaced to the host for any failed
// execution or introspection.
type QueryError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *QueryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return string(e.Kind)
}

func (e *QueryError) Unwrap() error {
	return e.Cause
}

// NewConnection wraps a connection establishment failure.
func NewConnection(cause error) *QueryError {
	return &QueryError{
		Kind:    KindConnection,
		Message: fmt.Sprintf("failed connecting to the remote engine: %v", cause),
		Cause:   cause,
	}
}

// NewRemote wraps an engine-reported query failure with an already
// extracted message.
func NewRemote(message string, cause error) *QueryError {
	return &QueryError{
		Kind:    KindRemote,
		Message: message,
		Cause:   cause,
	}
}

// NewCancelled reports user cancellation. The message is fixed.
func NewCancelled(cause error) *QueryError {
	return &QueryError{
		Kind:    KindCancelled,
		Message: CancelledMessage,
		Cause:   cause,
	}
}

// NewSchemaDiscovery reports a failed catalog query.
func NewSchemaDiscovery(cause error) *QueryError {
	return &QueryError{
		Kind:    KindSchemaDiscovery,
		Message: "Failed getting schema.",
		Cause:   cause,
	}
}

// NewUnexpected wraps any other failure, coercing it to text.
func NewUnexpected(cause error) *QueryError {
	return &QueryError{
		Kind:    KindUnexpected,
		Message: fmt.Sprint(cause),
		Cause:   cause,
	}
}

// KindOf returns the Kind of err if it is (or wraps) a *QueryError, and
// KindUnexpected otherwise.
func KindOf(err error) Kind {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return KindUnexpected
}

// IsCancelled reports whether err represents user cancellation.
func IsCancelled(err error) bool {
	return KindOf(err) == KindCancelled
}
