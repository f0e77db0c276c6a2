package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xaenox/chat-features/internal/models"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS conversations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	senders TEXT NOT NULL DEFAULT '[]',
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS messages (
	id TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL,
	seq INTEGER NOT NULL,
	sender TEXT NOT NULL,
	sent_at INTEGER NOT NULL,
	sent_date TEXT NOT NULL,
	sent_time TEXT NOT NULL,
	content TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_messages_conversation_sent_at
	ON messages (conversation_id, sent_at, seq);
`

// SQLiteStorage keeps conversations in a local SQLite file. Timestamps are stored
// as unix nanoseconds; the message date and time columns keep the export's local values.
type SQLiteStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteStorage(dbPath string, logger *zap.Logger) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps writes serialized
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Debug("Opened SQLite storage", zap.String("path", dbPath))
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) SaveConversation(ctx context.Context, conv *models.Conversation) error {
	senders, err := json.Marshal(conv.Senders)
	if err != nil {
		return fmt.Errorf("failed to encode senders: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (id, name, senders, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, senders = excluded.senders`,
		conv.ID, conv.Name, string(senders), conv.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO messages (id, conversation_id, seq, sender, sent_at, sent_date, sent_time, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare message insert: %w", err)
	}
	defer stmt.Close()

	for i, m := range conv.Messages {
		if _, err := stmt.ExecContext(ctx, m.ID, conv.ID, i, m.Sender, m.DateTime.UnixNano(), m.Date, m.Time, m.Content); err != nil {
			return fmt.Errorf("failed to insert message %s: %w", m.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit conversation: %w", err)
	}

	s.logger.Debug("Saved conversation",
		zap.String("conversation_id", conv.ID),
		zap.Int("messages", len(conv.Messages)))
	return nil
}

func (s *SQLiteStorage) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, senders, created_at
		FROM conversations
		WHERE id = ?`, id)
	conv, err := scanSQLiteConversation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender, sent_at, sent_date, sent_time, content
		FROM messages
		WHERE conversation_id = ?
		ORDER BY sent_at, seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m := &models.Message{}
		var sentAt int64
		if err := rows.Scan(&m.ID, &m.Sender, &sentAt, &m.Date, &m.Time, &m.Content); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.DateTime = time.Unix(0, sentAt)
		conv.Messages = append(conv.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return conv, nil
}

func (s *SQLiteStorage) ListConversations(ctx context.Context) ([]*models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, senders, created_at
		FROM conversations
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	var result []*models.Conversation
	for rows.Next() {
		conv, err := scanSQLiteConversation(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, conv)
	}
	return result, rows.Err()
}

func (s *SQLiteStorage) DeleteConversation(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrConversationNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteConversation(row rowScanner) (*models.Conversation, error) {
	conv := &models.Conversation{}
	var senders string
	var createdAt int64
	if err := row.Scan(&conv.ID, &conv.Name, &senders, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}
	if err := json.Unmarshal([]byte(senders), &conv.Senders); err != nil {
		return nil, fmt.Errorf("failed to decode senders: %w", err)
	}
	conv.CreatedAt = time.Unix(0, createdAt)
	return conv, nil
}
