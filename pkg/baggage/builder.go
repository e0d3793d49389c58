package baggage

import (
	"sort"
	"strings"
)

type entry struct {
	key   string
	value string
}

// Builder accumulates baggage entries. Entries with an empty key or a blank
// value are dropped. The zero value is ready to use; a Builder is not safe
// for concurrent use.
type Builder struct {
	entries []entry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Set records key=value. A later Set for the same key replaces the earlier
// value but keeps its original position.
func (b *Builder) Set(key, value string) *Builder {
	if key == "" || strings.TrimSpace(value) == "" {
		return b
	}
	for i := range b.entries {
		if b.entries[i].key == key {
			b.entries[i].value = value
			return b
		}
	}
	b.entries = append(b.entries, entry{key: key, value: value})
	return b
}

// SetAll records every pair of values, in key order.
func (b *Builder) SetAll(values map[string]string) *Builder {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.Set(k, values[k])
	}
	return b
}

// TenantID sets the tenant the span belongs to.
func (b *Builder) TenantID(v string) *Builder {
	return b.Set(TenantIDKey, v)
}

// AgentID sets the agent identifier.
func (b *Builder) AgentID(v string) *Builder {
	return b.Set(AgentIDKey, v)
}

// AgentName sets the human-readable agent name.
func (b *Builder) AgentName(v string) *Builder {
	return b.Set(AgentNameKey, v)
}

// AgentDescription sets the agent description.
func (b *Builder) AgentDescription(v string) *Builder {
	return b.Set(AgentDescriptionKey, v)
}

// CallerID sets the id of the user or service invoking the agent.
func (b *Builder) CallerID(v string) *Builder {
	return b.Set(CallerIDKey, v)
}

// CallerName sets the display name of the caller.
func (b *Builder) CallerName(v string) *Builder {
	return b.Set(CallerNameKey, v)
}

// SessionID sets the session identifier.
func (b *Builder) SessionID(v string) *Builder {
	return b.Set(SessionIDKey, v)
}

// ConversationID sets the conversation identifier.
func (b *Builder) ConversationID(v string) *Builder {
	return b.Set(ConversationIDKey, v)
}

// ChannelName sets the channel the request arrived on, e.g. "msteams".
func (b *Builder) ChannelName(v string) *Builder {
	return b.Set(ChannelNameKey, v)
}

// ChannelLink sets a link to the originating channel.
func (b *Builder) ChannelLink(v string) *Builder {
	return b.Set(ChannelLinkKey, v)
}

// CorrelationID sets the id correlating spans of one logical operation.
func (b *Builder) CorrelationID(v string) *Builder {
	return b.Set(CorrelationIDKey, v)
}

// Len returns the number of recorded entries.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Build returns a Scope holding a copy of the recorded entries. The Builder
// may be reused afterwards without affecting the Scope.
func (b *Builder) Build() *Scope {
	entries := make([]entry, len(b.entries))
	copy(entries, b.entries)
	return &Scope{entries: entries}
}
