package baggage

import (
	"context"
	"errors"
	"sync"

	otelbaggage "go.opentelemetry.io/otel/baggage"
)

var (
	// ErrScopeAttached is returned when attaching a scope that is already
	// attached or has been detached.
	ErrScopeAttached = errors.New("baggage scope already attached")

	// ErrScopeDetached is returned when detaching a scope that is not
	// currently attached.
	ErrScopeDetached = errors.New("baggage scope not attached")
)

// State is the lifecycle position of a Scope.
type State int

const (
	StateUnattached State = iota
	StateAttached
	StateDetached
)

func (s State) String() string {
	switch s {
	case StateUnattached:
		return "unattached"
	case StateAttached:
		return "attached"
	case StateDetached:
		return "detached"
	default:
		return "unknown"
	}
}

// Scope is a single-use baggage acquisition. Attach derives a context with
// the scope's entries merged over the parent's baggage and remembers the
// parent; Detach hands the parent back. Nested scopes must be detached in
// reverse order of attachment.
type Scope struct {
	entries []entry

	mu       sync.Mutex
	state    State
	previous context.Context
}

// State returns the current lifecycle state.
func (s *Scope) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Attach returns ctx with the scope's entries merged into its baggage.
// Keys not set by this scope keep their values from ctx.
func (s *Scope) Attach(ctx context.Context) (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnattached {
		return ctx, ErrScopeAttached
	}

	s.previous = ctx
	s.state = StateAttached
	return otelbaggage.ContextWithBaggage(ctx, merge(otelbaggage.FromContext(ctx), s.entries)), nil
}

// Detach ends the scope and returns the context that was current before
// Attach, unchanged.
func (s *Scope) Detach() (context.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateAttached {
		return nil, ErrScopeDetached
	}

	prev := s.previous
	s.previous = nil
	s.state = StateDetached
	return prev, nil
}

// Run attaches the scope, calls fn with the derived context and detaches on
// every exit path, including a panic in fn.
func (s *Scope) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	scoped, err := s.Attach(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = s.Detach()
	}()
	return fn(scoped)
}

func merge(bag otelbaggage.Baggage, entries []entry) otelbaggage.Baggage {
	for _, e := range entries {
		m, err := otelbaggage.NewMemberRaw(e.key, e.value)
		if err != nil {
			continue
		}
		next, err := bag.SetMember(m)
		if err != nil {
			continue
		}
		bag = next
	}
	return bag
}

// Values returns the baggage carried by ctx as a plain map.
func Values(ctx context.Context) map[string]string {
	members := otelbaggage.FromContext(ctx).Members()
	out := make(map[string]string, len(members))
	for _, m := range members {
		out[m.Key()] = m.Value()
	}
	return out
}
