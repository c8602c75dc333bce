package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendTurn(ctx context.Context, ev TurnEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	ts := ev.Timestamp.UTC()
	if ev.Timestamp.IsZero() {
		ts = time.Now().UTC()
	}

	q, args := sqlite.Insert(turnEventsTable).
		Columns("sequence", "timestamp", "session_id", "utterance", "confidence", "category", "handler",
			"from_state", "to_state", "language", "correctness", "diagnostic", "reply", "source",
			"attempts", "violations", "latency_ms").
		Values(seqNum, ts, ev.SessionID, ev.Utterance, ev.Confidence, ev.Category, ev.Handler,
			ev.FromState, ev.ToState, ev.Language, ev.Correctness, ev.Diagnostic, ev.Reply, ev.Source,
			ev.Attempts, strings.Join(ev.Violations, ","), ev.LatencyMs).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save turn event: %w", err)
	}
	return nil
}

func (r *eventRepo) Turns(ctx context.Context, sessionID string, opts QueryOpts) ([]TurnEvent, error) {
	sel := sqlite.Select("sequence", "timestamp", "session_id", "utterance", "confidence", "category", "handler",
		"from_state", "to_state", "language", "correctness", "diagnostic", "reply", "source",
		"attempts", "violations", "latency_ms").
		From(entsql.Table(turnEventsTable)).
		Where(entsql.And(
			entsql.EQ("session_id", sessionID),
			entsql.GT("sequence", opts.After),
		)).
		OrderBy("sequence")
	if opts.Limit > 0 {
		sel = sel.Limit(opts.Limit)
	}
	q, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query turn events: %w", err)
	}
	defer rows.Close()

	var out []TurnEvent
	for rows.Next() {
		var (
			ev         TurnEvent
			violations string
		)
		if err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.SessionID, &ev.Utterance, &ev.Confidence,
			&ev.Category, &ev.Handler, &ev.FromState, &ev.ToState, &ev.Language, &ev.Correctness,
			&ev.Diagnostic, &ev.Reply, &ev.Source, &ev.Attempts, &violations, &ev.LatencyMs); err != nil {
			return nil, fmt.Errorf("scan turn event: %w", err)
		}
		if violations != "" {
			ev.Violations = strings.Split(violations, ",")
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	q, args := sqlite.Insert(llmRequestsTable).
		Columns("sequence", "timestamp", "provider", "model", "purpose", "session_id", "input_tokens",
			"output_tokens", "cost_usd", "latency_ms", "success", "error_message", "request_body", "response_body").
		Values(seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose, data.SessionID, data.InputTokens,
			data.OutputTokens, data.CostUSD, data.LatencyMs, data.Success, data.ErrorMessage, data.RequestBody, data.ResponseBody).
		Query()
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) LLMUsage(ctx context.Context) ([]LLMUsage, error) {
	q, args := sqlite.Select(
		"model",
		entsql.Count("*"),
		"SUM(CASE WHEN success THEN 0 ELSE 1 END)",
		entsql.Sum("input_tokens"),
		entsql.Sum("output_tokens"),
		entsql.Sum("cost_usd"),
	).
		From(entsql.Table(llmRequestsTable)).
		GroupBy("model").
		OrderBy("model").
		Query()

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage: %w", err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u        LLMUsage
			in, outT sql.NullInt64
			cost     sql.NullFloat64
		)
		if err := rows.Scan(&u.Model, &u.Requests, &u.Failures, &in, &outT, &cost); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		u.InputTokens, u.OutputTokens, u.CostUSD = in.Int64, outT.Int64, cost.Float64
		out = append(out, u)
	}
	return out, rows.Err()
}
