package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// QuizRecord is a stored quiz with its questions in order.
type QuizRecord struct {
	ID            string
	Topic         string
	Difficulty    string
	SourceSummary string
	CreatedAt     time.Time
	Questions     []QuestionRecord
}

// QuestionRecord is a stored quiz question.
type QuestionRecord struct {
	ID          string
	QuizID      string
	Idx         int
	Type        string
	Text        string
	Choices     []string
	Answer      string
	Explanation string
}

// QuizSummary is a quiz listing row with attempt aggregates.
type QuizSummary struct {
	ID            string
	Topic         string
	Difficulty    string
	QuestionCount int
	CreatedAt     time.Time
	Attempts      int
	BestScore     int
	BestTotal     int
}

// AttemptRecord is a stored quiz attempt with its per-question answers.
type AttemptRecord struct {
	ID         string
	QuizID     string
	StartedAt  time.Time
	FinishedAt time.Time
	Score      int
	Total      int
	Answers    []AttemptAnswerRecord
}

// AttemptAnswerRecord is a stored answer within an attempt.
type AttemptAnswerRecord struct {
	QuestionID string
	Given      string
	Correct    bool
	Feedback   string
}

// QuizRepo persists quizzes and attempts.
type QuizRepo interface {
	// SaveQuiz stores a quiz and all of its questions in one transaction.
	SaveQuiz(ctx context.Context, q *QuizRecord) error

	// GetQuiz returns a quiz with questions in order, or nil if not found.
	GetQuiz(ctx context.Context, id string) (*QuizRecord, error)

	// ListQuizzes returns quiz summaries, newest first.
	ListQuizzes(ctx context.Context, limit int) ([]QuizSummary, error)

	// SaveAttempt stores a finished attempt and its answers.
	SaveAttempt(ctx context.Context, a *AttemptRecord) error

	// ListAttempts returns attempts for a quiz, newest first.
	ListAttempts(ctx context.Context, quizID string) ([]AttemptRecord, error)
}

type quizRepo struct {
	db *sql.DB
}

func (r *quizRepo) SaveQuiz(ctx context.Context, q *QuizRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO quizzes (id, topic, difficulty, source_summary, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		q.ID, q.Topic, q.Difficulty, q.SourceSummary, q.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert quiz: %w", err)
	}

	for i, question := range q.Questions {
		choices, err := json.Marshal(question.Choices)
		if err != nil {
			return fmt.Errorf("marshal choices: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO questions (id, quiz_id, idx, type, text, choices, answer, explanation)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			question.ID, q.ID, i, question.Type, question.Text,
			string(choices), question.Answer, question.Explanation)
		if err != nil {
			return fmt.Errorf("insert question %d: %w", i, err)
		}
	}

	return tx.Commit()
}

func (r *quizRepo) GetQuiz(ctx context.Context, id string) (*QuizRecord, error) {
	var q QuizRecord
	err := r.db.QueryRowContext(ctx,
		`SELECT id, topic, difficulty, source_summary, created_at
		 FROM quizzes WHERE id = ?`, id,
	).Scan(&q.ID, &q.Topic, &q.Difficulty, &q.SourceSummary, &q.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get quiz: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, quiz_id, idx, type, text, choices, answer, explanation
		 FROM questions WHERE quiz_id = ? ORDER BY idx`, id)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var question QuestionRecord
		var choices string
		if err := rows.Scan(&question.ID, &question.QuizID, &question.Idx,
			&question.Type, &question.Text, &choices,
			&question.Answer, &question.Explanation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(choices), &question.Choices); err != nil {
			return nil, fmt.Errorf("unmarshal choices: %w", err)
		}
		q.Questions = append(q.Questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &q, nil
}

func (r *quizRepo) ListQuizzes(ctx context.Context, limit int) ([]QuizSummary, error) {
	q := `SELECT z.id, z.topic, z.difficulty, z.created_at,
			(SELECT COUNT(*) FROM questions WHERE quiz_id = z.id),
			(SELECT COUNT(*) FROM attempts WHERE quiz_id = z.id),
			COALESCE((SELECT MAX(score) FROM attempts WHERE quiz_id = z.id), 0),
			COALESCE((SELECT total FROM attempts WHERE quiz_id = z.id
				ORDER BY score DESC LIMIT 1), 0)
		  FROM quizzes z ORDER BY z.created_at DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizSummary
	for rows.Next() {
		var s QuizSummary
		if err := rows.Scan(&s.ID, &s.Topic, &s.Difficulty, &s.CreatedAt,
			&s.QuestionCount, &s.Attempts, &s.BestScore, &s.BestTotal); err != nil {
			return nil, fmt.Errorf("scan quiz summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *quizRepo) SaveAttempt(ctx context.Context, a *AttemptRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO attempts (id, quiz_id, started_at, finished_at, score, total)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.QuizID, a.StartedAt.UTC(), a.FinishedAt.UTC(), a.Score, a.Total)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}

	for _, ans := range a.Answers {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attempt_answers (attempt_id, question_id, given, correct, feedback)
			 VALUES (?, ?, ?, ?, ?)`,
			a.ID, ans.QuestionID, ans.Given, boolToInt(ans.Correct), ans.Feedback)
		if err != nil {
			return fmt.Errorf("insert attempt answer: %w", err)
		}
	}

	return tx.Commit()
}

func (r *quizRepo) ListAttempts(ctx context.Context, quizID string) ([]AttemptRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, quiz_id, started_at, finished_at, score, total
		 FROM attempts WHERE quiz_id = ? ORDER BY finished_at DESC`, quizID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	defer rows.Close()

	var out []AttemptRecord
	for rows.Next() {
		var a AttemptRecord
		if err := rows.Scan(&a.ID, &a.QuizID, &a.StartedAt, &a.FinishedAt, &a.Score, &a.Total); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
