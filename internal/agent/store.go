package agent

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// TurnStore persists conversation turns in SQLite.
type TurnStore struct {
	db *sql.DB
}

// OpenTurnStore opens (or creates) the conversation database at path and
// ensures the schema exists.
func OpenTurnStore(ctx context.Context, path string) (*TurnStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open conversation db: %w", err)
	}

	// SQLite writes are serialized anyway; one connection avoids
	// SQLITE_BUSY under concurrent persists.
	db.SetMaxOpenConns(1)

	s := &TurnStore{db: db}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *TurnStore) initSchema(ctx context.Context) error {
	schema := `
		CREATE TABLE IF NOT EXISTS turns (
			id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			specialist TEXT,
			mode TEXT,
			created_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_turns_conversation
			ON turns(conversation_id, created_at);
		CREATE INDEX IF NOT EXISTS idx_turns_user
			ON turns(user_id);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// SaveTurn inserts one turn.
func (s *TurnStore) SaveTurn(ctx context.Context, t *Turn) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO turns (id, conversation_id, user_id, role, content, specialist, mode, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.ConversationID, t.UserID, t.Role, t.Content, t.Specialist, t.Mode,
		t.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert turn: %w", err)
	}
	return nil
}

// RecentTurns returns up to limit most recent turns for a conversation,
// oldest first.
func (s *TurnStore) RecentTurns(ctx context.Context, conversationID string, limit int) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, user_id, role, content, specialist, mode, created_at
		FROM turns
		WHERE conversation_id = ?
		ORDER BY created_at DESC
		LIMIT ?`,
		conversationID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var specialist, mode sql.NullString
		var createdAt string
		if err := rows.Scan(&t.ID, &t.ConversationID, &t.UserID, &t.Role, &t.Content,
			&specialist, &mode, &createdAt); err != nil {
			return nil, fmt.Errorf("scan turn: %w", err)
		}
		t.Specialist = specialist.String
		t.Mode = mode.String
		if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			t.CreatedAt = ts
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate turns: %w", err)
	}

	// Reverse into chronological order
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// CountTurns reports the stored turn count for a conversation.
func (s *TurnStore) CountTurns(ctx context.Context, conversationID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM turns WHERE conversation_id = ?`, conversationID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count turns: %w", err)
	}
	return n, nil
}

// Close releases the database handle.
func (s *TurnStore) Close() error {
	return s.db.Close()
}
