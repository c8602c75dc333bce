package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled caches compiled schemas by name. Phrasing sends the same
// schema on every turn.
var compiled sync.Map // map[string]*jsonschema.Schema

// structuredOutput turns raw model text into JSON conforming to schema.
// Markdown code fences that some models wrap around JSON are removed. A
// nil schema returns the text as a JSON string.
func structuredOutput(provider string, schema *Schema, text string) (json.RawMessage, error) {
	if schema == nil {
		b, err := json.Marshal(text)
		if err != nil {
			return nil, invalidOutput(provider, nil, err)
		}
		return b, nil
	}

	raw := stripFences([]byte(text))
	if len(raw) == 0 {
		return nil, invalidOutput(provider, raw, fmt.Errorf("empty response"))
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, invalidOutput(provider, raw, fmt.Errorf("not JSON: %w", err))
	}

	s, err := compile(schema)
	if err != nil {
		return nil, invalidOutput(provider, raw, err)
	}
	if err := s.Validate(parsed); err != nil {
		return nil, invalidOutput(provider, raw, fmt.Errorf("schema %q: %w", schema.Name, err))
	}
	return raw, nil
}

// stripFences trims whitespace and a surrounding ``` or ```json fence.
func stripFences(b []byte) []byte {
	b = bytes.TrimSpace(b)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = bytes.TrimSuffix(b[3:], []byte("```"))
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		// Drop the info string, e.g. "json".
		b = b[i+1:]
	} else {
		b = bytes.TrimPrefix(b, []byte("json"))
	}
	return bytes.TrimSpace(b)
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if s, ok := compiled.Load(schema.Name); ok {
		return s.(*jsonschema.Schema), nil
	}

	// The compiler wants decoded JSON values, not Go maps of arbitrary
	// types.
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse schema %q: %w", schema.Name, err)
	}

	c := jsonschema.NewCompiler()
	url := "mem://didi/" + schema.Name + ".json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", schema.Name, err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	actual, _ := compiled.LoadOrStore(schema.Name, s)
	return actual.(*jsonschema.Schema), nil
}
