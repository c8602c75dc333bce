package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/didi/internal/session"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int   // max results (0 = unlimited)
	After int64 // sequence > After
}

// ListOpts filters session listings.
type ListOpts struct {
	StudentID string
	Limit     int
}

// SessionInfo is the listing view of a stored session.
type SessionInfo struct {
	ID             string           `json:"id"`
	StudentID      string           `json:"student_id"`
	LessonID       string           `json:"lesson_id"`
	State          session.State    `json:"state"`
	Language       session.Language `json:"language"`
	Score          int              `json:"score"`
	QuestionsAsked int              `json:"questions_asked"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// SessionRepo stores one record per session id.
type SessionRepo interface {
	// Save inserts or replaces the session.
	Save(ctx context.Context, s *session.Session) error

	// Get returns the stored session or ErrNotFound.
	Get(ctx context.Context, id string) (*session.Session, error)

	// List returns sessions, most recently updated first.
	List(ctx context.Context, opts ListOpts) ([]SessionInfo, error)

	// Delete removes the session. Deleting a missing session is not an
	// error.
	Delete(ctx context.Context, id string) error
}

// TurnEvent is one processed utterance as recorded in the turn log.
// Sequence and Timestamp are assigned on append.
type TurnEvent struct {
	Sequence    int64
	Timestamp   time.Time
	SessionID   string
	Utterance   string
	Confidence  float64
	Category    string
	Handler     string
	FromState   string
	ToState     string
	Language    string
	Correctness string
	Diagnostic  string
	Reply       string
	Source      string
	Attempts    int
	Violations  []string
	LatencyMs   int64
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	InputTokens  int
	OutputTokens int
	CostUSD      float64
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMUsage aggregates LLM requests per model.
type LLMUsage struct {
	Model        string
	Requests     int
	Failures     int
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// EventRepo provides append access to the turn and LLM request logs.
type EventRepo interface {
	// AppendTurn records a processed turn.
	AppendTurn(ctx context.Context, ev TurnEvent) error

	// Turns returns a session's turns in sequence order.
	Turns(ctx context.Context, sessionID string, opts QueryOpts) ([]TurnEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsage returns request counts, tokens and cost per model.
	LLMUsage(ctx context.Context) ([]LLMUsage, error)
}
