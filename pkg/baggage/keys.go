package baggage

// Well-known baggage keys. The exporter partitions spans by TenantIDKey and
// AgentIDKey.
const (
	TenantIDKey         = "tenant.id"
	AgentIDKey          = "gen_ai.agent.id"
	AgentNameKey        = "gen_ai.agent.name"
	AgentDescriptionKey = "gen_ai.agent.description"
	CallerIDKey         = "gen_ai.caller.id"
	CallerNameKey       = "gen_ai.caller.name"
	SessionIDKey        = "session.id"
	ConversationIDKey   = "gen_ai.conversation.id"
	ChannelNameKey      = "gen_ai.channel.name"
	ChannelLinkKey      = "gen_ai.channel.link"
	CorrelationIDKey    = "correlation.id"
)
