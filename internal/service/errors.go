package service

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest marks a request that is missing required caller input.
// It is surfaced before any external call is attempted.
var ErrInvalidRequest = errors.New("invalid request")

// ErrNotFound marks a lookup for a row that does not exist.
var ErrNotFound = errors.New("not found")

// ModelError wraps a failed call to the generative model.
type ModelError struct {
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model call failed: %v", e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// ParseError marks model output that did not contain recoverable JSON.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse model output: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("could not parse model output: %s", e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError marks a candidate recipe that is structurally present but
// semantically incomplete.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid recipe: %s: %s", e.Field, e.Reason)
}

// StoreError wraps a persistence failure. The cause is logged server-side and
// never echoed verbatim to the caller.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
