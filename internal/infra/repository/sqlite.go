package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"feedback-connector/internal/domain/entities"

	_ "modernc.org/sqlite"
)

const savedAtLayout = time.RFC3339

// SQLiteFeedbackRepository stores completed conversations in an embedded
// SQLite database. Turns and feedback points are kept as JSON columns.
type SQLiteFeedbackRepository struct {
	conn *sql.DB
}

// NewSQLiteFeedbackRepository opens or creates the database at dbPath,
// creating the parent directory if needed.
func NewSQLiteFeedbackRepository(dbPath string) (*SQLiteFeedbackRepository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	// WAL for better concurrent read performance while submissions write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = conn.Close()
		return nil, err
	}

	repo := &SQLiteFeedbackRepository{conn: conn}
	if err := repo.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return repo, nil
}

// NewInMemorySQLiteFeedbackRepository opens an in-memory database, useful for
// testing.
func NewInMemorySQLiteFeedbackRepository() (*SQLiteFeedbackRepository, error) {
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	repo := &SQLiteFeedbackRepository{conn: conn}
	if err := repo.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return repo, nil
}

func (r *SQLiteFeedbackRepository) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id       TEXT NOT NULL UNIQUE,
			score                 INTEGER NOT NULL,
			sentiment             TEXT NOT NULL,
			initial_transcription TEXT NOT NULL,
			feedback_points       TEXT NOT NULL,
			turns                 TEXT NOT NULL,
			requires_followup     BOOLEAN NOT NULL,
			conversation_complete BOOLEAN NOT NULL,
			saved_at              TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversations_saved_at ON conversations(saved_at)`,
	}
	for _, stmt := range statements {
		if _, err := r.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migrate conversations schema: %w", err)
		}
	}
	return nil
}

func (r *SQLiteFeedbackRepository) Save(ctx context.Context, record entities.ConversationRecord) error {
	points, err := json.Marshal(record.FeedbackPoints)
	if err != nil {
		return fmt.Errorf("marshal feedback points: %w", err)
	}
	turns, err := json.Marshal(record.Turns)
	if err != nil {
		return fmt.Errorf("marshal turns: %w", err)
	}

	var savedAt any
	if record.SavedAt != nil {
		savedAt = record.SavedAt.UTC().Format(savedAtLayout)
	}

	_, err = r.conn.ExecContext(ctx, `
		INSERT INTO conversations (
			conversation_id, score, sentiment, initial_transcription,
			feedback_points, turns, requires_followup, conversation_complete, saved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ConversationID, record.Score, record.Sentiment, record.InitialTranscription,
		string(points), string(turns), record.RequiresFollowUp, record.ConversationComplete, savedAt,
	)
	if err != nil {
		return fmt.Errorf("insert conversation %s: %w", record.ConversationID, err)
	}
	return nil
}

func (r *SQLiteFeedbackRepository) FindByWindow(ctx context.Context, start, end *time.Time) ([]entities.ConversationRecord, error) {
	query := `
		SELECT conversation_id, score, sentiment, initial_transcription,
		       feedback_points, turns, requires_followup, conversation_complete, saved_at
		FROM conversations`
	var args []any
	var where []string
	if start != nil {
		where = append(where, "saved_at IS NOT NULL AND saved_at >= ?")
		args = append(args, start.UTC().Format(savedAtLayout))
	}
	if end != nil {
		where = append(where, "saved_at IS NOT NULL AND saved_at <= ?")
		args = append(args, end.UTC().Format(savedAtLayout))
	}
	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY id"

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conversations: %w", err)
	}
	defer rows.Close()

	var records []entities.ConversationRecord
	for rows.Next() {
		var record entities.ConversationRecord
		var points, turns string
		var savedAt sql.NullString
		if err := rows.Scan(
			&record.ConversationID, &record.Score, &record.Sentiment, &record.InitialTranscription,
			&points, &turns, &record.RequiresFollowUp, &record.ConversationComplete, &savedAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversation row: %w", err)
		}
		if err := json.Unmarshal([]byte(points), &record.FeedbackPoints); err != nil {
			return nil, fmt.Errorf("unmarshal feedback points: %w", err)
		}
		if err := json.Unmarshal([]byte(turns), &record.Turns); err != nil {
			return nil, fmt.Errorf("unmarshal turns: %w", err)
		}
		if savedAt.Valid {
			ts, err := time.Parse(savedAtLayout, savedAt.String)
			if err != nil {
				return nil, fmt.Errorf("parse saved_at %q: %w", savedAt.String, err)
			}
			record.SavedAt = &ts
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (r *SQLiteFeedbackRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversations").Scan(&count)
	return count, err
}

func (r *SQLiteFeedbackRepository) Close(ctx context.Context) error {
	return r.conn.Close()
}
