package inspector

import (
	"fmt"
	"time"
)

// AuthError indicates bad or missing credentials. Not retryable.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("authentication failed: %s", e.Message)
	}
	return "authentication failed"
}

// NotFoundError indicates the referenced sandbox does not exist.
type NotFoundError struct {
	SandboxID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sandbox %q not found", e.SandboxID)
}

// PathNotFoundError indicates the referenced path does not exist inside an
// existing sandbox.
type PathNotFoundError struct {
	SandboxID string
	Path      string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q not found in sandbox %q", e.Path, e.SandboxID)
}

// IsADirectoryError indicates a file operation was attempted on a directory.
type IsADirectoryError struct {
	Path string
}

func (e *IsADirectoryError) Error() string {
	return fmt.Sprintf("%q is a directory", e.Path)
}

// InvalidRangeError indicates a metrics query with start after end. Rejected
// before any remote call.
type InvalidRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid metrics range: start %s is after end %s",
		e.Start.Format(time.RFC3339), e.End.Format(time.RFC3339))
}

// ConfirmationRequiredError indicates a global destructive action was invoked
// without its explicit opt-in. Rejected before any remote call.
type ConfirmationRequiredError struct {
	Action string
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("confirmation required to %s", e.Action)
}

// ValidationError represents a client-side validation failure, rejected
// before any remote call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// TimeoutError indicates an execution exceeded its time bound. Stdout and
// Stderr carry whatever partial output the provider reported before the
// deadline; both may be empty.
type TimeoutError struct {
	SandboxID string
	Timeout   time.Duration
	Stdout    string
	Stderr    string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("execution in sandbox %q exceeded %s", e.SandboxID, e.Timeout)
}

// ProviderError represents a collaborator-side failure or an unexpected
// response. StatusCode is 0 for transport-level failures.
type ProviderError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.Message != "" && e.StatusCode != 0:
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("provider error: %s", e.Message)
	case e.Err != nil:
		return fmt.Sprintf("provider error: %v", e.Err)
	}
	return fmt.Sprintf("provider error (status %d)", e.StatusCode)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// SchemaError indicates a provider response could not be parsed into the
// data model, which means the provider contract changed.
type SchemaError struct {
	Message string
	Err     error
}

func (e *SchemaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema error: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("schema error: %s", e.Message)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}
