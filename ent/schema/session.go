package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Session is the persisted tutoring session, one row per session id. The
// full record is kept as encoded JSON in data; the other columns are
// copies for listing and filtering.
type Session struct {
	ent.Schema
}

func (Session) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("Session id"),
		field.String("student_id").
			Default(""),
		field.String("lesson_id").
			NotEmpty(),
		field.String("state").
			NotEmpty().
			Comment("Current FSM state"),
		field.String("language").
			NotEmpty().
			Comment("Preferred reply language"),
		field.Int("score").
			Default(0),
		field.Int("questions_asked").
			Default(0),
		field.Text("data").
			Comment("Encoded session record"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Session) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("student_id"),
		index.Fields("updated_at"),
	}
}
