package endpoint

import (
	"errors"
	"fmt"
)

// ErrUnknownCluster is returned for a cluster category outside the fixed set.
var ErrUnknownCluster = errors.New("unknown cluster category")

// ValidationError reports a tenant identifier that cannot be sharded.
type ValidationError struct {
	// Value is the tenant identifier as supplied by the caller.
	Value string

	// Reason describes the failed rule.
	Reason string

	// MinLength is the required normalized length; zero when the failure is
	// not a length violation.
	MinLength int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.MinLength > 0 {
		return fmt.Sprintf("tenant id %q %s: must be at least %d characters after removing dashes",
			e.Value, e.Reason, e.MinLength)
	}
	return fmt.Sprintf("tenant id %q %s", e.Value, e.Reason)
}
