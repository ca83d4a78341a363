package chat

import (
	"context"
	"errors"
	"fmt"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for chat business logic.
type Service interface {
	StartConversation(ctx context.Context, userID, otherUserID uuid.UUID) (*Conversation, bool, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error)
	GetMessages(ctx context.Context, conversationID, requestingUserID uuid.UUID, page, pageSize int) ([]Message, *common.Pagination, error)
	SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, body string) (*Message, error)
}

type service struct {
	repo        Repository
	userService shared.Service
	logger      *zap.Logger
}

var _ Service = (*service)(nil)

// NewService creates a new chat service.
func NewService(repo Repository, userService shared.Service, logger *zap.Logger) Service {
	return &service{repo: repo, userService: userService, logger: logger}
}

// StartConversation returns the conversation between the two users, creating
// it when none exists. The boolean reports whether a new conversation was
// created. A user cannot open a conversation with themself.
func (s *service) StartConversation(ctx context.Context, userID, otherUserID uuid.UUID) (*Conversation, bool, error) {
	if userID == otherUserID {
		return nil, false, common.ErrBadRequest.WithDetails("Cannot start a conversation with yourself.")
	}

	// The other party must exist.
	if _, err := s.userService.GetUserByID(ctx, otherUserID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, false, common.ErrNotFound.WithDetails("User to chat with not found.")
		}
		return nil, false, err
	}

	first, second := NormalizePair(userID, otherUserID)

	cv, err := s.repo.FindConversationByPair(ctx, first, second)
	if err == nil {
		return cv, false, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	cv = &Conversation{User1ID: first, User2ID: second}
	if err := s.repo.CreateConversation(ctx, cv); err != nil {
		// A concurrent request may have created the pair first.
		if errors.Is(err, common.ErrConflict) {
			existing, findErr := s.repo.FindConversationByPair(ctx, first, second)
			if findErr == nil {
				return existing, false, nil
			}
		}
		s.logger.Error("Failed to create conversation", zap.Error(err),
			zap.String("user1ID", first.String()), zap.String("user2ID", second.String()))
		return nil, false, fmt.Errorf("failed to create conversation: %w", err)
	}

	// Reload with participants for the response.
	created, err := s.repo.FindConversationByID(ctx, cv.ID)
	if err != nil {
		return cv, true, nil
	}
	s.logger.Info("Conversation created", zap.String("conversationID", cv.ID.String()))
	return created, true, nil
}

func (s *service) ListConversations(ctx context.Context, userID uuid.UUID) ([]Conversation, error) {
	return s.repo.ListConversationsForUser(ctx, userID)
}

// GetMessages returns a page of messages. Only the two participants may read
// a conversation; anyone else gets a forbidden error.
func (s *service) GetMessages(ctx context.Context, conversationID, requestingUserID uuid.UUID, page, pageSize int) ([]Message, *common.Pagination, error) {
	cv, err := s.repo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, nil, err
	}
	if !cv.Participant(requestingUserID) {
		s.logger.Warn("Non-participant attempted to read conversation",
			zap.String("conversationID", conversationID.String()),
			zap.String("requestingUserID", requestingUserID.String()))
		return nil, nil, common.ErrForbidden.WithDetails("You are not a participant of this conversation.")
	}

	pagination := common.NewPagination(0, page, pageSize)
	messages, totalItems, err := s.repo.ListMessages(ctx, conversationID, *pagination)
	if err != nil {
		return nil, nil, err
	}
	return messages, common.NewPagination(totalItems, page, pageSize), nil
}

// SendMessage appends a message to a conversation the sender participates in.
func (s *service) SendMessage(ctx context.Context, conversationID, senderID uuid.UUID, body string) (*Message, error) {
	cv, err := s.repo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !cv.Participant(senderID) {
		s.logger.Warn("Non-participant attempted to send message",
			zap.String("conversationID", conversationID.String()),
			zap.String("senderID", senderID.String()))
		return nil, common.ErrForbidden.WithDetails("You are not a participant of this conversation.")
	}

	msg := &Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Body:           body,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		s.logger.Error("Failed to send message", zap.Error(err),
			zap.String("conversationID", conversationID.String()))
		return nil, fmt.Errorf("failed to send message: %w", err)
	}
	return msg, nil
}
