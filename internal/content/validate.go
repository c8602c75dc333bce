package content

import (
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/didi/internal/evaluator"
)

// SupportedMajor is the pack format major version this build reads.
const SupportedMajor = "v1"

// validate performs all structural checks on the pack.
// Returns a combined error describing all problems found, or nil if valid.
func (p *Pack) validate() error {
	var errs []string

	v := p.Version
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	switch {
	case !semver.IsValid(v):
		errs = append(errs, fmt.Sprintf("invalid pack version %q", p.Version))
	case semver.Major(v) != SupportedMajor:
		errs = append(errs, fmt.Sprintf("pack version %s not supported (want %s.x)", p.Version, SupportedMajor))
	}

	conceptIDs := make(map[string]bool, len(p.Concepts))
	for _, c := range p.Concepts {
		if c.ID == "" {
			errs = append(errs, "concept with empty ID")
			continue
		}
		if conceptIDs[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate concept ID: %q", c.ID))
		}
		conceptIDs[c.ID] = true
		if len(c.Materials) == 0 {
			errs = append(errs, fmt.Sprintf("concept %q has no teaching material", c.ID))
		}
		for i, m := range c.Materials {
			if m.Empty() {
				errs = append(errs, fmt.Sprintf("concept %q material %d is empty", c.ID, i))
			}
		}
	}

	questionIDs := make(map[string]bool, len(p.Questions))
	for _, q := range p.Questions {
		prefix := fmt.Sprintf("question %q", q.ID)
		if q.ID == "" {
			errs = append(errs, "question with empty ID")
			continue
		}
		if questionIDs[q.ID] {
			errs = append(errs, fmt.Sprintf("duplicate question ID: %q", q.ID))
		}
		questionIDs[q.ID] = true

		if !conceptIDs[q.ConceptID] {
			errs = append(errs, fmt.Sprintf("%s references nonexistent concept %q", prefix, q.ConceptID))
		}
		if q.Prompt.Empty() {
			errs = append(errs, fmt.Sprintf("%s: prompt is empty", prefix))
		}
		if q.Hint1.Empty() || q.Hint2.Empty() || q.Solution.Empty() {
			errs = append(errs, fmt.Sprintf("%s: needs two hints and a solution", prefix))
		}
		for _, a := range append([]string{q.ExpectedAnswer}, q.AcceptedEquivalents...) {
			if err := checkAnswerKey(a); err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", prefix, err))
			}
		}
		if q.Difficulty < 0 {
			errs = append(errs, fmt.Sprintf("%s: difficulty must be >= 0, got %d", prefix, q.Difficulty))
		}
	}

	lessonIDs := make(map[string]bool, len(p.Lessons))
	for _, l := range p.Lessons {
		if lessonIDs[l.ID] {
			errs = append(errs, fmt.Sprintf("duplicate lesson ID: %q", l.ID))
		}
		lessonIDs[l.ID] = true
		if len(l.QuestionIDs) == 0 {
			errs = append(errs, fmt.Sprintf("lesson %q has no questions", l.ID))
		}
		for _, qid := range l.QuestionIDs {
			if !questionIDs[qid] {
				errs = append(errs, fmt.Sprintf("lesson %q references nonexistent question %q", l.ID, qid))
			}
		}
	}
	if len(p.Lessons) == 0 {
		errs = append(errs, "pack has no lessons")
	}

	if len(errs) > 0 {
		return fmt.Errorf("content pack validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// checkAnswerKey rejects keys the evaluator could never match. Keys with
// digits must be canonical numbers; word keys must be non-empty.
func checkAnswerKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("empty answer key")
	}
	if strings.ContainsAny(key, "0123456789") {
		if _, err := evaluator.ParseCanonical(key); err != nil {
			return fmt.Errorf("answer key %q is not canonical: %w", key, err)
		}
	}
	return nil
}
