package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed packs/default.yaml
var defaultPack []byte

// DefaultLessonID is the lesson used when a session names none.
const DefaultLessonID = "rational-numbers"

// Pack is a loaded, validated content pack. It implements Store.
type Pack struct {
	Version   string     `yaml:"version"`
	Concepts  []Concept  `yaml:"concepts"`
	Questions []Question `yaml:"questions"`
	Lessons   []Lesson   `yaml:"lessons"`

	concepts  map[string]*Concept
	questions map[string]*Question
	lessons   map[string]*Lesson
}

// Default loads the pack compiled into the binary.
func Default() (*Pack, error) {
	return Load(bytes.NewReader(defaultPack))
}

// LoadFile loads a pack from a YAML file.
func LoadFile(path string) (*Pack, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content pack: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load decodes and validates a pack. Unknown fields are rejected.
func Load(r io.Reader) (*Pack, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Pack
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode content pack: %w", err)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	p.index()
	return &p, nil
}

func (p *Pack) index() {
	p.concepts = lo.KeyBy(lo.ToSlicePtr(p.Concepts), func(c *Concept) string { return c.ID })
	p.questions = lo.KeyBy(lo.ToSlicePtr(p.Questions), func(q *Question) string { return q.ID })
	p.lessons = lo.KeyBy(lo.ToSlicePtr(p.Lessons), func(l *Lesson) string { return l.ID })
}

func (p *Pack) Lesson(id string) (*Lesson, error) {
	if l, ok := p.lessons[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("lesson %q: %w", id, ErrNotFound)
}

func (p *Pack) Concept(id string) (*Concept, error) {
	if c, ok := p.concepts[id]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("concept %q: %w", id, ErrNotFound)
}

func (p *Pack) Question(id string) (*Question, error) {
	if q, ok := p.questions[id]; ok {
		return q, nil
	}
	return nil, fmt.Errorf("question %q: %w", id, ErrNotFound)
}
