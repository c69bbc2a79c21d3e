package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the query path.
var (
	// ErrMissingParameter indicates a required request parameter was absent.
	ErrMissingParameter = errors.New("safequery: missing parameter")

	// ErrMalformedQuery indicates a template/parameter mismatch detected
	// before the query reached the store.
	ErrMalformedQuery = errors.New("safequery: malformed query")

	// ErrQueryExecution indicates the store rejected or failed a query.
	ErrQueryExecution = errors.New("safequery: query execution failed")

	// ErrQueryConsumed indicates a Query was submitted more than once.
	ErrQueryConsumed = errors.New("safequery: query already submitted")

	// ErrUnsafeQuery marks query text built by concatenating untrusted input.
	ErrUnsafeQuery = errors.New("safequery: unsafe query construction")
)

// MissingParameterError is returned when a request carries no value for a
// required parameter.
type MissingParameterError struct {
	Name string
}

// Error implements the error interface.
func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("missing required parameter %q", e.Name)
}

// Is reports whether target is ErrMissingParameter.
func (e *MissingParameterError) Is(target error) bool {
	return target == ErrMissingParameter
}

// MalformedQueryError is returned when a template cannot be paired with its
// parameters. It is a programming defect and is never sent to the store.
type MalformedQueryError struct {
	Template     string
	Placeholders int
	Params       int
	Cause        error
}

// Error implements the error interface.
func (e *MalformedQueryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed query %q: %v", e.Template, e.Cause)
	}
	return fmt.Sprintf("malformed query %q: %d placeholders, %d parameters",
		e.Template, e.Placeholders, e.Params)
}

// Unwrap returns the underlying error.
func (e *MalformedQueryError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrMalformedQuery.
func (e *MalformedQueryError) Is(target error) bool {
	return target == ErrMalformedQuery
}

// FailureKind classifies a store-reported failure.
type FailureKind string

const (
	// FailureUnknown is any failure the dialect could not classify.
	FailureUnknown FailureKind = "unknown"
	// FailureSyntax covers syntax errors and references to missing objects.
	FailureSyntax FailureKind = "syntax"
	// FailureConnectivity covers lost or refused connections.
	FailureConnectivity FailureKind = "connectivity"
	// FailureConstraint covers integrity constraint violations.
	FailureConstraint FailureKind = "constraint"
	// FailureCanceled covers context cancellation and deadlines.
	FailureCanceled FailureKind = "canceled"
)

// QueryExecutionError carries the store's diagnostic for a failed query.
type QueryExecutionError struct {
	Kind       FailureKind
	Code       string
	Diagnostic string
	Template   string
	Cause      error
}

// Error implements the error interface.
func (e *QueryExecutionError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("query failed [%s %s]: %s", e.Kind, e.Code, e.Diagnostic)
	}
	return fmt.Sprintf("query failed [%s]: %s", e.Kind, e.Diagnostic)
}

// Unwrap returns the underlying driver error.
func (e *QueryExecutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrQueryExecution.
func (e *QueryExecutionError) Is(target error) bool {
	return target == ErrQueryExecution
}

// IsMissingParameter checks if an error is a missing parameter error.
func IsMissingParameter(err error) bool {
	return errors.Is(err, ErrMissingParameter)
}

// IsMalformedQuery checks if an error is a malformed query error.
func IsMalformedQuery(err error) bool {
	return errors.Is(err, ErrMalformedQuery)
}

// IsQueryExecution checks if an error is a store failure.
func IsQueryExecution(err error) bool {
	return errors.Is(err, ErrQueryExecution)
}
