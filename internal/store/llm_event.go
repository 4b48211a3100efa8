package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMEventRecord is a stored LLM request event.
type LLMEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// PurposeUsage aggregates token usage for one request purpose.
type PurposeUsage struct {
	Purpose      string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// ModelUsage aggregates token usage for one model.
type ModelUsage struct {
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match ("" = all)
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns recent events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)

	// GetLLMEvent returns a single event by ID, or nil if not found.
	GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error)

	// LLMUsageByPurpose aggregates token usage per request purpose.
	LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error)

	// LLMUsageByModel aggregates token usage per model.
	LLMUsageByModel(ctx context.Context) ([]ModelUsage, error)
}

type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO llm_events
			(timestamp, provider, model, purpose, input_tokens, output_tokens,
			 latency_ms, success, error_message, request_body, response_body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC(), data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		boolToInt(data.Success), data.ErrorMessage, data.RequestBody, data.ResponseBody,
	)
	if err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	q := `SELECT id, timestamp, provider, model, purpose, input_tokens,
			output_tokens, latency_ms, success, error_message
		  FROM llm_events`
	var args []any
	if opts.Purpose != "" {
		q += ` WHERE purpose = ?`
		args = append(args, opts.Purpose)
	}
	q += ` ORDER BY id DESC`
	if opts.Limit > 0 {
		q += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMEventRecord
	for rows.Next() {
		var e LLMEventRecord
		var success int
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
			&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &success, &e.ErrorMessage); err != nil {
			return nil, fmt.Errorf("scan LLM event: %w", err)
		}
		e.Success = success != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMEventRecord, error) {
	var e LLMEventRecord
	var success int
	err := r.db.QueryRowContext(ctx,
		`SELECT id, timestamp, provider, model, purpose, input_tokens,
			output_tokens, latency_ms, success, error_message,
			request_body, response_body
		 FROM llm_events WHERE id = ?`, id,
	).Scan(&e.ID, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event: %w", err)
	}
	e.Success = success != 0
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]PurposeUsage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT purpose, COUNT(*), SUM(input_tokens), SUM(output_tokens),
			CAST(AVG(latency_ms) AS INTEGER)
		 FROM llm_events GROUP BY purpose ORDER BY purpose`)
	if err != nil {
		return nil, fmt.Errorf("query usage by purpose: %w", err)
	}
	defer rows.Close()

	var out []PurposeUsage
	for rows.Next() {
		var u PurposeUsage
		if err := rows.Scan(&u.Purpose, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]ModelUsage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT model, COUNT(*), SUM(input_tokens), SUM(output_tokens)
		 FROM llm_events GROUP BY model ORDER BY model`)
	if err != nil {
		return nil, fmt.Errorf("query usage by model: %w", err)
	}
	defer rows.Close()

	var out []ModelUsage
	for rows.Next() {
		var u ModelUsage
		if err := rows.Scan(&u.Model, &u.Calls, &u.InputTokens, &u.OutputTokens); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
