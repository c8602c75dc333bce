package store

import (
	"fmt"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/didi/ent/schema"
)

// Table names.
const (
	sessionsTable    = "sessions"
	turnEventsTable  = "turn_events"
	llmRequestsTable = "llm_requests"
)

// tables builds the migration tables from the ent schema definitions.
func tables() ([]*schema.Table, error) {
	defs := []struct {
		name string
		def  ent.Interface
	}{
		{sessionsTable, entschema.Session{}},
		{turnEventsTable, entschema.TurnEvent{}},
		{llmRequestsTable, entschema.LLMRequestEvent{}},
	}
	out := make([]*schema.Table, 0, len(defs))
	for _, d := range defs {
		t, err := tableOf(d.name, d.def)
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", d.name, err)
		}
		out = append(out, t)
	}
	return out, nil
}

// tableOf converts an ent schema, mixins included, into a migration table.
// A field named "id" becomes the primary key; otherwise an auto-increment
// integer id is added.
func tableOf(name string, def ent.Interface) (*schema.Table, error) {
	var fields []ent.Field
	var indexes []ent.Index
	for _, m := range def.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, def.Fields()...)
	indexes = append(indexes, def.Indexes()...)

	t := schema.NewTable(name)
	var pk *schema.Column
	for _, f := range fields {
		d := f.Descriptor()
		if d.Err != nil {
			return nil, fmt.Errorf("field %s: %w", d.Name, d.Err)
		}
		col := &schema.Column{
			Name:     d.Name,
			Type:     d.Info.Type,
			Size:     int64(d.Size),
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Comment:  d.Comment,
		}
		if d.Name == "id" {
			pk = col
			continue
		}
		t.AddColumn(col)
	}
	if pk == nil {
		pk = &schema.Column{Name: "id", Type: field.TypeInt, Increment: true}
	}
	t.AddPrimary(pk)

	for _, ix := range indexes {
		d := ix.Descriptor()
		t.AddIndex(name+"_"+strings.Join(d.Fields, "_"), d.Unique, d.Fields)
	}
	return t, nil
}
