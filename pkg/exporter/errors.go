package exporter

import (
	"errors"
	"fmt"
)

// ErrShutdown is returned by ExportSpans after Shutdown.
var ErrShutdown = errors.New("exporter is shut down")

// ErrorKind classifies a per-group delivery failure.
type ErrorKind int

const (
	// KindUnknown covers unexpected failures, including recovered panics.
	KindUnknown ErrorKind = iota
	// KindValidation means the endpoint could not be resolved for the tenant.
	KindValidation
	// KindToken means the token resolver failed or returned no token.
	KindToken
	// KindTransient means retryable failures persisted past the retry limit.
	KindTransient
	// KindPermanent means the service rejected the payload with a
	// non-retryable status.
	KindPermanent
)

var kindNames = map[ErrorKind]string{
	KindUnknown:    "unknown",
	KindValidation: "validation",
	KindToken:      "token",
	KindTransient:  "transient",
	KindPermanent:  "permanent",
}

// String returns the lowercase kind name used in logs and metric labels.
func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error describes why one identity group was not delivered.
type Error struct {
	// Kind classifies the failure.
	Kind ErrorKind

	// TenantID and AgentID identify the group.
	TenantID string
	AgentID  string

	// StatusCode is the last HTTP status received (0 if none).
	StatusCode int

	// Attempts is the number of POSTs made (0 if none were sent).
	Attempts int

	// Cause is the underlying error (if any).
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("agent365 export %s failure for tenant %q agent %q", e.Kind, e.TenantID, e.AgentID)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" (status %d after %d attempts)", e.StatusCode, e.Attempts)
	} else if e.Attempts > 0 {
		msg += fmt.Sprintf(" (after %d attempts)", e.Attempts)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the ErrorKind of the first *Error in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// ExportResult is the aggregate outcome of one export call.
type ExportResult int

const (
	// Success means every identity group was delivered, or there was
	// nothing to send.
	Success ExportResult = iota
	// Failure means at least one group failed or the exporter is shut down.
	Failure
)

// String returns "SUCCESS" or "FAILURE".
func (r ExportResult) String() string {
	if r == Success {
		return "SUCCESS"
	}
	return "FAILURE"
}
