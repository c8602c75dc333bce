package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// TurnEvent records one processed utterance and the reply it produced.
type TurnEvent struct {
	ent.Schema
}

func (TurnEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (TurnEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("utterance").
			Default(""),
		field.Float("confidence").
			Default(0),
		field.String("category").
			Comment("Input classification"),
		field.String("handler"),
		field.String("from_state"),
		field.String("to_state"),
		field.String("language"),
		field.String("correctness").
			Default("").
			Comment("Evaluator verdict when the turn checked an answer"),
		field.String("diagnostic").
			Default(""),
		field.Text("reply"),
		field.String("source").
			Comment("generated, template or fallback"),
		field.Int("attempts").
			Default(0).
			Comment("Phrasing attempts before the reply was accepted"),
		field.Text("violations").
			Default("").
			Comment("Comma-separated enforcement rules that rejected a candidate"),
		field.Int64("latency_ms").
			Default(0),
	}
}

func (TurnEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("category"),
	}
}
