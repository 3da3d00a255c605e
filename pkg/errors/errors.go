// Package errors provides the structured error types used across the
// embed encoding steps. Every failure class in the step lifecycle
// (configuration, schema validation, model fitting, apply-time state)
// has its own error type carrying the context a caller needs, and all
// constructors attach a stack trace via cockroachdb/errors.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	Structured error types
//
// ===========================================================================

// NotTrainedError is returned when Bake, Tidy, or another apply-phase
// method is called on a step that has not been trained yet.
type NotTrainedError struct {
	StepID string
	Method string
}

func (e *NotTrainedError) Error() string {
	return fmt.Sprintf("embed: step %s is not trained yet. Call Fit() before using %s()", e.StepID, e.Method)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NotTrainedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("step_id", e.StepID).
		Str("method", e.Method).
		Str("type", "NotTrainedError")
}

// NewNotTrainedError creates a NotTrainedError with a stack trace attached.
func NewNotTrainedError(stepID, method string) error {
	err := &NotTrainedError{StepID: stepID, Method: method}
	return errors.WithStack(err)
}

// MissingColumnError is returned when a table lacks a column the
// operation expects, either at training or apply time.
type MissingColumnError struct {
	Op     string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("embed: %s: column %q not found in data", e.Op, e.Column)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *MissingColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("type", "MissingColumnError")
}

// NewMissingColumnError creates a MissingColumnError with a stack trace attached.
func NewMissingColumnError(op, column string) error {
	err := &MissingColumnError{Op: op, Column: column}
	return errors.WithStack(err)
}

// TypeError is returned when a column has a type the operation cannot
// work with, e.g. a numeric predictor passed to a nominal-only step or
// an outcome that is neither numeric nor a two-level factor.
type TypeError struct {
	Op       string
	Column   string
	Expected string
	Got      string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("embed: %s: column %q should be %s, got %s", e.Op, e.Column, e.Expected, e.Got)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *TypeError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("expected", e.Expected).
		Str("got", e.Got).
		Str("type", "TypeError")
}

// NewTypeError creates a TypeError with a stack trace attached.
func NewTypeError(op, column, expected, got string) error {
	err := &TypeError{Op: op, Column: column, Expected: expected, Got: got}
	return errors.WithStack(err)
}

// FitError is returned when the per-column regression underlying an
// encoding cannot be fit: the iterative solver did not converge, the
// design is singular beyond recovery, or no usable rows remain after
// missing values are dropped. A FitError aborts training for the whole
// step; no partial mapping is produced.
type FitError struct {
	Op     string
	Column string
	Reason string
	Err    error
}

func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embed: %s: fit failed for column %q: %s: %v", e.Op, e.Column, e.Reason, e.Err)
	}
	return fmt.Sprintf("embed: %s: fit failed for column %q: %s", e.Op, e.Column, e.Reason)
}

func (e *FitError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *FitError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("column", e.Column).
		Str("reason", e.Reason).
		Str("type", "FitError")
}

// NewFitError creates a FitError with a stack trace attached.
func NewFitError(op, column, reason string, err error) error {
	fitErr := &FitError{Op: op, Column: column, Reason: reason, Err: err}
	return errors.WithStack(fitErr)
}

// ConfigError is returned when a step is constructed or configured with
// invalid parameters, e.g. no outcome selector or a trim fraction
// outside [0, 0.5]. It fails fast and is not recoverable.
type ConfigError struct {
	Param  string
	Reason string
	Value  interface{}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("embed: invalid configuration for %q: %s (got: %v)", e.Param, e.Reason, e.Value)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *ConfigError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param", e.Param).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ConfigError")
}

// NewConfigError creates a ConfigError with a stack trace attached.
func NewConfigError(param, reason string, value interface{}) error {
	err := &ConfigError{Param: param, Reason: reason, Value: value}
	return errors.WithStack(err)
}

// ValueError is returned for malformed argument values that do not fit
// a more specific category, e.g. columns of unequal length passed to a
// table constructor.
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("embed: %s: %s", e.Op, e.Message)
}

// NewValueError creates a ValueError with a stack trace attached.
func NewValueError(op, message string) error {
	err := &ValueError{Op: op, Message: message}
	return errors.WithStack(err)
}

// ===========================================================================
//
//	cockroachdb/errors wrappers
//
// ===========================================================================

// Is reports whether err matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an existing error with a message.
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New creates a new error.
func New(message string) error {
	return errors.New(message)
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack annotates err with a stack trace.
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	Shared sentinel errors
//
// ===========================================================================

var (
	// ErrEmptyData is returned when no usable rows remain for a fit.
	ErrEmptyData = New("no usable rows")

	// ErrSingularFit is returned when a regression design is singular
	// beyond recovery.
	ErrSingularFit = New("singular fit")

	// ErrNoConvergence is returned when an iterative fit exhausts its
	// iteration budget without the deviance settling.
	ErrNoConvergence = New("fit did not converge")
)
