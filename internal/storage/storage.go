package storage

import (
	"context"
	"errors"

	"github.com/xaenox/chat-features/internal/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Storage is the message source analyzed conversations are loaded from.
// Only imported messages are stored, never computed metrics.
type Storage interface {
	// SaveConversation creates or replaces a conversation and all its messages
	SaveConversation(ctx context.Context, conv *models.Conversation) error
	// GetConversation loads a conversation with its messages in chronological order
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	// ListConversations returns conversation metadata without messages, oldest first
	ListConversations(ctx context.Context) ([]*models.Conversation, error)
	DeleteConversation(ctx context.Context, id string) error
	Close() error
}
