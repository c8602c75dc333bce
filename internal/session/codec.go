package session

import (
	"encoding/json"
	"errors"
	"fmt"
)

// CodecVersion is the version written into every persisted session.
const CodecVersion = 1

// envelope wraps the session so the persisted shape can evolve.
type envelope struct {
	Version int      `json:"version"`
	Session *Session `json:"session"`
}

// Marshal encodes s for storage.
func Marshal(s *Session) ([]byte, error) {
	if s == nil {
		return nil, errors.New("marshal nil session")
	}
	b, err := json.Marshal(envelope{Version: CodecVersion, Session: s})
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}
	return b, nil
}

// Unmarshal decodes a stored session and checks that it is usable.
func Unmarshal(data []byte) (*Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	if env.Version != CodecVersion {
		return nil, fmt.Errorf("unsupported session version %d", env.Version)
	}
	if env.Session == nil {
		return nil, errors.New("stored session is empty")
	}
	if err := env.Session.Validate(); err != nil {
		return nil, err
	}
	return env.Session, nil
}

// Validate checks the fields a restored session must have.
func (s *Session) Validate() error {
	var errs []error
	if s.ID == "" {
		errs = append(errs, errors.New("session id is required"))
	}
	if !s.CurrentState.Valid() {
		errs = append(errs, fmt.Errorf("invalid current state %q", s.CurrentState))
	}
	if s.PreviousState != "" && !s.PreviousState.Valid() {
		errs = append(errs, fmt.Errorf("invalid previous state %q", s.PreviousState))
	}
	if _, err := ParseLanguage(string(s.PreferredLanguage)); err != nil {
		errs = append(errs, err)
	}
	if s.HintsGiven < HintsSolution {
		errs = append(errs, fmt.Errorf("invalid hints given %d", s.HintsGiven))
	}
	return errors.Join(errs...)
}
