package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// EventMixin holds what every append-only log row carries: its place in
// the global order, when it was written and the session it belongs to.
type EventMixin struct {
	mixin.Schema
}

func (EventMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Global order across both event tables"),
		field.Time("timestamp").
			Default(time.Now).
			Immutable(),
		field.String("session_id").
			Default("").
			Immutable().
			Comment("Empty for LLM calls made outside a session"),
	}
}

// Indexes serve the per-session replay in sequence order.
func (EventMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id", "sequence"),
		index.Fields("timestamp"),
	}
}
