package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database and provides access to repositories.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db}
}

// QuizRepo returns a QuizRepo backed by this store.
func (s *Store) QuizRepo() QuizRepo {
	return &quizRepo{db: s.db}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// migrate creates the schema. Statements are idempotent so Open can be
// called against both fresh and existing databases.
func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			difficulty TEXT NOT NULL,
			source_summary TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
			idx INTEGER NOT NULL,
			type TEXT NOT NULL,
			text TEXT NOT NULL,
			choices TEXT NOT NULL DEFAULT '[]',
			answer TEXT NOT NULL,
			explanation TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_questions_quiz ON questions(quiz_id, idx)`,
		`CREATE TABLE IF NOT EXISTS attempts (
			id TEXT PRIMARY KEY,
			quiz_id TEXT NOT NULL REFERENCES quizzes(id) ON DELETE CASCADE,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP NOT NULL,
			score INTEGER NOT NULL,
			total INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS attempt_answers (
			attempt_id TEXT NOT NULL REFERENCES attempts(id) ON DELETE CASCADE,
			question_id TEXT NOT NULL,
			given TEXT NOT NULL,
			correct INTEGER NOT NULL,
			feedback TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (attempt_id, question_id)
		)`,
		`CREATE TABLE IF NOT EXISTS llm_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TIMESTAMP NOT NULL,
			provider TEXT NOT NULL,
			model TEXT NOT NULL,
			purpose TEXT NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			request_body TEXT NOT NULL DEFAULT '',
			response_body TEXT NOT NULL DEFAULT ''
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZ_DB environment variable
// 2. $XDG_DATA_HOME/quiz/quiz.db
// 3. ~/.local/share/quiz/quiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZ_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "quiz", "quiz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
