// README: Chat history store backed by PostgreSQL.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Zburns31/AtlasTravelAssistant/internal/llm"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the chat_messages table if it does not exist.
// Called once at startup; the schema is small enough not to warrant a
// migration tool yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_messages (
			id         BIGSERIAL PRIMARY KEY,
			session_id TEXT        NOT NULL,
			role       TEXT        NOT NULL,
			content    TEXT        NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS chat_messages_session_idx
			ON chat_messages (session_id, id);
	`)
	if err != nil {
		return fmt.Errorf("ensure chat_messages schema: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, sessionID string, role llm.Role, content string, at time.Time) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO chat_messages (session_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)`,
		sessionID, string(role), content, at,
	)
	if err != nil {
		return fmt.Errorf("append chat message: %w", err)
	}
	return nil
}

// Recent returns up to limit entries for the session, oldest first.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, session_id, role, content, created_at
		FROM (
			SELECT id, session_id, role, content, created_at
			FROM chat_messages
			WHERE session_id = $1
			ORDER BY id DESC
			LIMIT $2
		) latest
		ORDER BY id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query chat history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var role string
		if err := rows.Scan(&e.ID, &e.SessionID, &role, &e.Content, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		e.Role = llm.Role(role)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat history: %w", err)
	}
	return entries, nil
}

func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.Exec(ctx,
		`DELETE FROM chat_messages WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("delete chat session: %w", err)
	}
	return nil
}
