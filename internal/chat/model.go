// File: internal/chat/model.go
package chat

import (
	"bytes"
	"time"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/user"

	"github.com/google/uuid"
)

// Conversation is a private channel between exactly two users. The pair is
// stored in a canonical order (smaller UUID first) so that one row exists per
// pair regardless of who initiated it.
type Conversation struct {
	common.BaseModel
	User1ID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair"`
	User2ID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_conversation_pair"`
	User1   *user.User `gorm:"foreignKey:User1ID;references:ID;constraint:OnDelete:CASCADE;"`
	User2   *user.User `gorm:"foreignKey:User2ID;references:ID;constraint:OnDelete:CASCADE;"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// Participant reports whether the given user is one of the two members.
func (cv *Conversation) Participant(userID uuid.UUID) bool {
	return cv.User1ID == userID || cv.User2ID == userID
}

// NormalizePair returns the two user IDs in canonical storage order.
func NormalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if bytes.Compare(a[:], b[:]) > 0 {
		return b, a
	}
	return a, b
}

// Message is a single chat message within a conversation.
type Message struct {
	common.BaseModel
	ConversationID uuid.UUID     `gorm:"type:uuid;not null;index"`
	Conversation   *Conversation `gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE;"`
	SenderID       uuid.UUID     `gorm:"type:uuid;not null"`
	Sender         *user.User    `gorm:"foreignKey:SenderID;references:ID;constraint:OnDelete:CASCADE;"`
	Body           string        `gorm:"type:text;not null"`
}

func (Message) TableName() string {
	return "messages"
}

// --- DTOs ---

// StartConversationRequest opens (or returns) the conversation with another
// user.
type StartConversationRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// SendMessageRequest carries a new message body.
type SendMessageRequest struct {
	Body string `json:"body" binding:"required,max=5000"`
}

// ConversationResponse is the API representation of a conversation.
type ConversationResponse struct {
	ID        uuid.UUID    `json:"id"`
	User1     PeerResponse `json:"user1"`
	User2     PeerResponse `json:"user2"`
	CreatedAt time.Time    `json:"created_at"`
}

// PeerResponse identifies one participant of a conversation.
type PeerResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username,omitempty"`
	UserType string    `json:"user_type,omitempty"`
}

// MessageResponse is the API representation of a message.
type MessageResponse struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// ToConversationResponse converts a Conversation to its API representation.
func ToConversationResponse(cv *Conversation) ConversationResponse {
	resp := ConversationResponse{
		ID:        cv.ID,
		User1:     PeerResponse{ID: cv.User1ID},
		User2:     PeerResponse{ID: cv.User2ID},
		CreatedAt: cv.CreatedAt,
	}
	if cv.User1 != nil {
		resp.User1.Username = cv.User1.Name
		resp.User1.UserType = cv.User1.Role
	}
	if cv.User2 != nil {
		resp.User2.Username = cv.User2.Name
		resp.User2.UserType = cv.User2.Role
	}
	return resp
}

// ToConversationResponses converts a slice of conversations.
func ToConversationResponses(conversations []Conversation) []ConversationResponse {
	responses := make([]ConversationResponse, 0, len(conversations))
	for i := range conversations {
		responses = append(responses, ToConversationResponse(&conversations[i]))
	}
	return responses
}

// ToMessageResponse converts a Message to its API representation.
func ToMessageResponse(m *Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Body:           m.Body,
		CreatedAt:      m.CreatedAt,
	}
}

// ToMessageResponses converts a slice of messages.
func ToMessageResponses(messages []Message) []MessageResponse {
	responses := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, ToMessageResponse(&messages[i]))
	}
	return responses
}
