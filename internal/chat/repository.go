// File: internal/chat/repository.go
package chat

import (
	"context"
	"errors"
	"fmt"

	"farmlink_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for conversation and message data
// operations.
type Repository interface {
	CreateConversation(ctx context.Context, conversation *Conversation) error
	FindConversationByID(ctx context.Context, id uuid.UUID) (*Conversation, error)
	FindConversationByPair(ctx context.Context, user1ID, user2ID uuid.UUID) (*Conversation, error)
	ListConversationsForUser(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
	CreateMessage(ctx context.Context, message *Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID, query common.Pagination) ([]Message, int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM chat repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// CreateConversation inserts a new conversation. The caller must have put the
// pair in canonical order.
func (r *gormRepository) CreateConversation(ctx context.Context, conversation *Conversation) error {
	err := r.db.WithContext(ctx).Create(conversation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return common.ErrConflict.WithDetails("A conversation between these users already exists.")
		}
		return fmt.Errorf("failed to create conversation: %w", err)
	}
	return nil
}

// FindConversationByID retrieves a conversation with both participants
// preloaded.
func (r *gormRepository) FindConversationByID(ctx context.Context, id uuid.UUID) (*Conversation, error) {
	var cv Conversation
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		First(&cv, "conversations.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Conversation not found.")
		}
		return nil, err
	}
	return &cv, nil
}

// FindConversationByPair retrieves the conversation for a canonical user pair.
func (r *gormRepository) FindConversationByPair(ctx context.Context, user1ID, user2ID uuid.UUID) (*Conversation, error) {
	var cv Conversation
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		First(&cv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Conversation not found.")
		}
		return nil, err
	}
	return &cv, nil
}

// ListConversationsForUser retrieves all conversations the user takes part
// in, newest first.
func (r *gormRepository) ListConversationsForUser(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	var conversations []Conversation
	err := r.db.WithContext(ctx).
		Preload("User1").
		Preload("User2").
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("conversations.created_at DESC").
		Find(&conversations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return conversations, nil
}

// CreateMessage inserts a new message.
func (r *gormRepository) CreateMessage(ctx context.Context, message *Message) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages retrieves a page of messages for a conversation in
// chronological order, along with the total count.
func (r *gormRepository) ListMessages(ctx context.Context, conversationID uuid.UUID, query common.Pagination) ([]Message, int64, error) {
	var messages []Message
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Message{}).Where("conversation_id = ?", conversationID)
	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count messages: %w", err)
	}

	offset := (query.CurrentPage - 1) * query.PageSize
	err := dbQuery.
		Order("messages.created_at ASC").
		Offset(offset).
		Limit(query.PageSize).
		Find(&messages).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, totalItems, nil
}
