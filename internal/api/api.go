// Package api exposes the tutor over HTTP: one utterance and a session id
// in, one reply and the session summary out.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/abhisek/didi/internal/logger"
	"github.com/abhisek/didi/internal/observe"
	"github.com/abhisek/didi/internal/session"
	"github.com/abhisek/didi/internal/store"
	"github.com/abhisek/didi/internal/tutor"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Tutor is the part of tutor.Service the API needs.
type Tutor interface {
	Start(ctx context.Context, req tutor.StartRequest) (*tutor.Response, error)
	Turn(ctx context.Context, req tutor.TurnRequest) (*tutor.Response, error)
	Get(ctx context.Context, id string) (session.Summary, error)
	Turns(ctx context.Context, id string, opts store.QueryOpts) ([]store.TurnEvent, error)
	List(ctx context.Context, opts store.ListOpts) ([]store.SessionInfo, error)
}

// Handler serves the HTTP API.
type Handler struct {
	tutor   Tutor
	log     *logger.Logger
	metrics *observe.Metrics
}

// New creates a Handler. nil log and metrics record nothing.
func New(t Tutor, log *logger.Logger, metrics *observe.Metrics) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	if metrics == nil {
		metrics = observe.Nop()
	}
	return &Handler{tutor: t, log: log, metrics: metrics}
}

// Routes returns the router with middleware installed.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLog)
	r.Use(middleware.Recoverer)
	r.Use(observe.Middleware(h.metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", h.listSessions)
		r.Post("/", h.startSession)
		r.Route("/{sessionID}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Get("/turns", h.listTurns)
			r.Post("/turns", h.postTurn)
		})
	})
	return r
}

// NewServer wraps handler in an http.Server with the given timeouts.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
	}
}

type startBody struct {
	StudentID string `json:"student_id"`
	LessonID  string `json:"lesson_id"`
	Language  string `json:"language"`
}

type turnBody struct {
	Text string `json:"text"`

	// Confidence defaults to 1 for typed input.
	Confidence *float64 `json:"confidence"`
}

// replyResponse adds base64 audio to a tutor response.
type replyResponse struct {
	*tutor.Response
	Audio []byte `json:"audio,omitempty"`
}

type turnEvent struct {
	Sequence    int64     `json:"sequence"`
	Timestamp   time.Time `json:"timestamp"`
	Utterance   string    `json:"utterance"`
	Category    string    `json:"category,omitempty"`
	FromState   string    `json:"from_state"`
	ToState     string    `json:"to_state"`
	Language    string    `json:"language"`
	Correctness string    `json:"correctness,omitempty"`
	Diagnostic  string    `json:"diagnostic,omitempty"`
	Reply       string    `json:"reply"`
	Source      string    `json:"source"`
	Violations  []string  `json:"violations,omitempty"`
	LatencyMs   int64     `json:"latency_ms"`
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var body startBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	resp, err := h.tutor.Start(r.Context(), tutor.StartRequest{
		StudentID: body.StudentID,
		LessonID:  body.LessonID,
		Language:  body.Language,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, replyResponse{Response: resp, Audio: resp.Audio})
}

func (h *Handler) postTurn(w http.ResponseWriter, r *http.Request) {
	var body turnBody
	if err := decodeJSON(w, r, &body); err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return
	}
	conf := 1.0
	if body.Confidence != nil {
		conf = *body.Confidence
	}
	resp, err := h.tutor.Turn(r.Context(), tutor.TurnRequest{
		SessionID:  chi.URLParam(r, "sessionID"),
		Text:       body.Text,
		Confidence: conf,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, replyResponse{Response: resp, Audio: resp.Audio})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sum, err := h.tutor.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (h *Handler) listTurns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts store.QueryOpts
	var err error
	if opts.After, err = queryInt(q.Get("after")); err != nil {
		writeErr(w, http.StatusBadRequest, "after: "+err.Error())
		return
	}
	limit, err := queryInt(q.Get("limit"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "limit: "+err.Error())
		return
	}
	opts.Limit = int(limit)

	events, err := h.tutor.Turns(r.Context(), chi.URLParam(r, "sessionID"), opts)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out := make([]turnEvent, 0, len(events))
	for _, ev := range events {
		out = append(out, turnEvent{
			Sequence:    ev.Sequence,
			Timestamp:   ev.Timestamp,
			Utterance:   ev.Utterance,
			Category:    ev.Category,
			FromState:   ev.FromState,
			ToState:     ev.ToState,
			Language:    ev.Language,
			Correctness: ev.Correctness,
			Diagnostic:  ev.Diagnostic,
			Reply:       ev.Reply,
			Source:      ev.Source,
			Violations:  ev.Violations,
			LatencyMs:   ev.LatencyMs,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r.URL.Query().Get("limit"))
	if err != nil {
		writeErr(w, http.StatusBadRequest, "limit: "+err.Error())
		return
	}
	infos, err := h.tutor.List(r.Context(), store.ListOpts{
		StudentID: r.URL.Query().Get("student_id"),
		Limit:     int(limit),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if infos == nil {
		infos = []store.SessionInfo{}
	}
	writeJSON(w, http.StatusOK, infos)
}

// fail maps service errors to status codes. Only the two caller errors
// carry their message.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tutor.ErrInvalidRequest):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tutor.ErrSessionNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeErr(w, http.StatusServiceUnavailable, "request timed out")
	default:
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "error", err)
		writeErr(w, http.StatusInternalServerError, "internal error")
	}
}

func (h *Handler) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.log.Debug("request completed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func queryInt(v string) (int64, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a non-negative integer", v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errResp struct {
	Error string `json:"error"`
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}
