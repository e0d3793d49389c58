// Package baggage attaches identity and correlation values to a context so
// that every span started beneath it carries them as attributes.
//
// A Builder collects key/value pairs, Build returns a Scope, and the Scope
// is attached to a context for the duration of a unit of work:
//
//	scope := baggage.NewBuilder().
//	    TenantID(tenantID).
//	    AgentID(agentID).
//	    SessionID(sessionID).
//	    Build()
//
//	err := scope.Run(ctx, func(ctx context.Context) error {
//	    ctx, span := tracer.Start(ctx, "invoke_agent")
//	    defer span.End()
//	    return handle(ctx)
//	})
//
// The SpanProcessor installed on the tracer provider copies the values onto
// each span when it starts. Attributes the caller set explicitly win.
//
// Values are stored as W3C baggage members, so the standard propagators
// carry them across process boundaries as well.
package baggage
