package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/xaenox/chat-features/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	// URL, when set, is passed to the driver as is and the other fields are ignored
	URL      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func (c DatabaseConfig) ConnString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStorage(config DatabaseConfig, logger *zap.Logger) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", config.ConnString())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.initializeSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	logger.Info("Connected to PostgreSQL",
		zap.String("host", config.Host),
		zap.Int("port", config.Port),
		zap.String("dbname", config.DBName))
	return storage, nil
}

func (s *PostgresStorage) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	if _, err := s.db.Exec(string(migrationSQL)); err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}
	return nil
}

func (s *PostgresStorage) SaveConversation(ctx context.Context, conv *models.Conversation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO conversations (id, name, senders, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, senders = EXCLUDED.senders`,
		conv.ID, conv.Name, pq.Array(conv.Senders), conv.CreatedAt)
	if err != nil {
		return fmt.Errorf("error saving conversation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = $1`, conv.ID); err != nil {
		return fmt.Errorf("error clearing messages: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("messages",
		"id", "conversation_id", "seq", "sender", "sent_at", "sent_date", "sent_time", "content"))
	if err != nil {
		return fmt.Errorf("error preparing message copy: %w", err)
	}
	for i, m := range conv.Messages {
		if _, err := stmt.ExecContext(ctx, m.ID, conv.ID, i, m.Sender, m.DateTime, m.Date, m.Time, m.Content); err != nil {
			stmt.Close()
			return fmt.Errorf("error copying message %s: %w", m.ID, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("error flushing message copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("error closing message copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing conversation: %w", err)
	}

	s.logger.Debug("Saved conversation",
		zap.String("conversation_id", conv.ID),
		zap.Int("messages", len(conv.Messages)))
	return nil
}

func (s *PostgresStorage) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	conv := &models.Conversation{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, senders, created_at
		FROM conversations
		WHERE id = $1`, id,
	).Scan(&conv.ID, &conv.Name, pq.Array(&conv.Senders), &conv.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error querying conversation: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sender, sent_at, sent_date, sent_time, content
		FROM messages
		WHERE conversation_id = $1
		ORDER BY sent_at, seq`, id)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		m := &models.Message{}
		if err := rows.Scan(&m.ID, &m.Sender, &m.DateTime, &m.Date, &m.Time, &m.Content); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		conv.Messages = append(conv.Messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return conv, nil
}

func (s *PostgresStorage) ListConversations(ctx context.Context) ([]*models.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, senders, created_at
		FROM conversations
		ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var result []*models.Conversation
	for rows.Next() {
		conv := &models.Conversation{}
		if err := rows.Scan(&conv.ID, &conv.Name, pq.Array(&conv.Senders), &conv.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning conversation: %w", err)
		}
		result = append(result, conv)
	}
	return result, rows.Err()
}

func (s *PostgresStorage) DeleteConversation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrConversationNotFound
	}
	return nil
}

func (s *PostgresStorage) Close() error {
	return s.db.Close()
}
