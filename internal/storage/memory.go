package storage

import (
	"context"
	"sort"
	"sync"

	"github.com/xaenox/chat-features/internal/models"
)

type MemoryStorage struct {
	mu            sync.RWMutex
	conversations map[string]*models.Conversation
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		conversations: make(map[string]*models.Conversation),
	}
}

func (s *MemoryStorage) SaveConversation(ctx context.Context, conv *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[conv.ID] = cloneConversation(conv, true)
	return nil
}

func (s *MemoryStorage) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, exists := s.conversations[id]
	if !exists {
		return nil, ErrConversationNotFound
	}
	return cloneConversation(conv, true), nil
}

func (s *MemoryStorage) ListConversations(ctx context.Context) ([]*models.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		result = append(result, cloneConversation(conv, false))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryStorage) DeleteConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[id]; !exists {
		return ErrConversationNotFound
	}
	delete(s.conversations, id)
	return nil
}

func (s *MemoryStorage) Close() error {
	// Nothing to close for in-memory storage
	return nil
}

func cloneConversation(conv *models.Conversation, withMessages bool) *models.Conversation {
	out := &models.Conversation{
		ID:        conv.ID,
		Name:      conv.Name,
		Senders:   append([]string(nil), conv.Senders...),
		CreatedAt: conv.CreatedAt,
	}
	if withMessages {
		out.Messages = make([]*models.Message, len(conv.Messages))
		for i, m := range conv.Messages {
			cp := *m
			out.Messages[i] = &cp
		}
	}
	return out
}
