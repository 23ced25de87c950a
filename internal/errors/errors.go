// Package errors provides centralized error definitions and error
// handling utilities for the arena codebase. It defines domain-specific
// errors, semantic error types, constructors with context wrapping, and
// classification helpers.
//
// Two categories exist:
//
// Domain-specific errors represent failures from specific subsystems:
//   - SessionError: session controller state machine violations
//   - BackendError: one backend attempt failing for one role's turn
//
// Semantic errors represent common conditions:
//   - ValidationError: invalid input or state
//   - TimeoutError: operation timed out
//
// Per-attempt backend failures are recovered locally by the scheduler
// (rotation or skip) and never propagate past the turn boundary; the
// classification helpers exist so callers at that boundary can decide
// what is worth logging at which level.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions so callers can import only this
// package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Validation sentinel errors.
var (
	// ErrEmptyProposal indicates an empty or whitespace-only proposal.
	ErrEmptyProposal = New("proposal cannot be empty")
	// ErrProposalTooLong indicates the proposal exceeds the maximum length.
	ErrProposalTooLong = New("proposal exceeds maximum length")
	// ErrInvalidInput indicates input validation failed.
	ErrInvalidInput = New("invalid input")
)

// Configuration sentinel errors.
var (
	// ErrMissingCredential indicates a required API key is unconfigured.
	ErrMissingCredential = New("required credential not configured")
)

// Backend sentinel errors.
var (
	// ErrEmptyResponse indicates a backend stream yielded zero fragments.
	ErrEmptyResponse = New("backend returned empty response")
	// ErrBackendsExhausted indicates every backend failed for one role's turn.
	ErrBackendsExhausted = New("all backends failed for role")
)

// Session controller sentinel errors.
var (
	// ErrSessionActive indicates a start while a debate is already running.
	ErrSessionActive = New("debate already running")
	// ErrSessionNotRunning indicates a pause/stop with no active debate.
	ErrSessionNotRunning = New("no debate running")
	// ErrSessionNotPaused indicates a resume on a session that is not paused.
	ErrSessionNotPaused = New("debate is not paused")
	// ErrNoConclusion indicates a refine before any conclusion exists.
	ErrNoConclusion = New("no conclusion to refine")
	// ErrEmptyDebate indicates a conclusion request with no non-empty
	// agent messages to synthesize from.
	ErrEmptyDebate = New("debate has no agent messages to conclude")
)

// General sentinel errors.
var (
	// ErrCanceled indicates an operation was canceled. Cancellation is
	// not a failure: it suppresses event emission for the in-flight
	// attempt and ends the stream without an error event.
	ErrCanceled = New("operation canceled")
	// ErrTimeout indicates an operation timed out.
	ErrTimeout = New("operation timed out")
)

// ArenaError is the base interface for all arena errors. It extends the
// standard error interface with classification methods.
type ArenaError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsRetryable returns true if the error is transient and the
	// operation may succeed on retry (or, for backend errors, on the
	// next backend in rotation).
	IsRetryable() bool

	// IsUserFacing returns true if the message is safe to put on the
	// wire as an agent_error or HTTP error body.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	retryable  bool
	userFacing bool
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Unwrap() error { return e.cause }

func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

func (e *baseError) Severity() Severity { return e.severity }
func (e *baseError) IsRetryable() bool  { return e.retryable }
func (e *baseError) IsUserFacing() bool { return e.userFacing }

// SessionError represents a session controller failure, usually an
// operation invoked in a state that does not permit it.
//
// Example:
//
//	err := errors.NewSessionError("cannot resume", errors.ErrSessionNotPaused).
//		WithSessionID("abc123").WithState("running")
type SessionError struct {
	baseError
	SessionID string
	State     string
}

// NewSessionError creates a new SessionError.
func NewSessionError(message string, cause error) *SessionError {
	return &SessionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithSessionID adds a session ID to the error context.
func (e *SessionError) WithSessionID(id string) *SessionError {
	e.SessionID = id
	return e
}

// WithState adds the controller state at the time of the failure.
func (e *SessionError) WithState(state string) *SessionError {
	e.State = state
	return e
}

// Error returns the formatted error message.
func (e *SessionError) Error() string {
	var parts []string
	if e.SessionID != "" {
		parts = append(parts, fmt.Sprintf("session=%s", e.SessionID))
	}
	if e.State != "" {
		parts = append(parts, fmt.Sprintf("state=%s", e.State))
	}

	prefix := "session error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("session error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SessionError) Is(target error) bool {
	if _, ok := target.(*SessionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// BackendError represents one backend attempt failing for one role's
// turn. Backend errors are retryable by default: the scheduler recovers
// by rotating to the next backend.
//
// Example:
//
//	err := errors.NewBackendError("stream failed", cause).
//		WithBackendID("openai/gpt-oss-120b:free").WithRole("critic")
type BackendError struct {
	baseError
	BackendID string
	Role      string
	Status    int
}

// NewBackendError creates a new BackendError.
func NewBackendError(message string, cause error) *BackendError {
	return &BackendError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
	}
}

// WithBackendID adds the failing backend's ID to the error context.
func (e *BackendError) WithBackendID(id string) *BackendError {
	e.BackendID = id
	return e
}

// WithRole adds the acting role to the error context.
func (e *BackendError) WithRole(role string) *BackendError {
	e.Role = role
	return e
}

// WithStatus adds the upstream HTTP status to the error context.
func (e *BackendError) WithStatus(status int) *BackendError {
	e.Status = status
	return e
}

// WithRetryable sets whether the error is retryable.
func (e *BackendError) WithRetryable(r bool) *BackendError {
	e.retryable = r
	return e
}

// Error returns the formatted error message.
func (e *BackendError) Error() string {
	var parts []string
	if e.BackendID != "" {
		parts = append(parts, fmt.Sprintf("backend=%s", e.BackendID))
	}
	if e.Role != "" {
		parts = append(parts, fmt.Sprintf("role=%s", e.Role))
	}
	if e.Status != 0 {
		parts = append(parts, fmt.Sprintf("status=%d", e.Status))
	}

	prefix := "backend error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("backend error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *BackendError) Is(target error) bool {
	if _, ok := target.(*BackendError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents invalid input or state.
//
// Example:
//
//	err := errors.NewValidationError("proposal cannot be empty").
//		WithField("proposal")
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			retryable:  false,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue adds the invalid value to the error context.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// WithCause adds a cause to the error.
func (e *ValidationError) WithCause(cause error) *ValidationError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	var parts []string
	if e.Field != "" {
		parts = append(parts, fmt.Sprintf("field=%s", e.Field))
	}
	if e.Value != nil {
		parts = append(parts, fmt.Sprintf("value=%v", e.Value))
	}

	prefix := "validation error"
	if len(parts) > 0 {
		prefix = fmt.Sprintf("validation error [%s]", strings.Join(parts, ", "))
	}

	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// TimeoutError represents an operation that timed out.
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			retryable:  true,
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// IsRetryable returns true if the error represents a transient
// condition that may succeed on retry or on the next backend in
// rotation.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	var arenaErr ArenaError
	if As(err, &arenaErr) {
		return arenaErr.IsRetryable()
	}

	return Is(err, ErrTimeout) || Is(err, ErrEmptyResponse)
}

// IsUserFacing returns true if the error message is safe to put on the
// wire (agent_error data, HTTP error body).
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var arenaErr ArenaError
	if As(err, &arenaErr) {
		return arenaErr.IsUserFacing()
	}

	var validation *ValidationError
	var timeout *TimeoutError
	return As(err, &validation) || As(err, &timeout)
}

// GetSeverity returns the severity level of the error. Errors that do
// not implement ArenaError default to SeverityError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var arenaErr ArenaError
	if As(err, &arenaErr) {
		return arenaErr.Severity()
	}

	return SeverityError
}

// Wrap wraps an error with an additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
