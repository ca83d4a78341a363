// File: internal/user/model.go
package user

import (
	"time"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/shared"

	"github.com/google/uuid"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	Name             string  `gorm:"type:varchar(100);not null"`
	Email            string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash     *string `gorm:"type:varchar(255)"` // NULL for OAuth-only accounts
	Role             string  `gorm:"type:varchar(20);not null"`
	Contact          *string `gorm:"type:varchar(20);uniqueIndex"` // Pointer to allow NULL
	GoogleID         *string `gorm:"type:varchar(255);uniqueIndex"`
	LastLoginAt      *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetRole() string {
	return u.Role
}

// --- DTOs (Data Transfer Objects) for API responses ---

// UpdateProfileRequest defines the structure for profile updates. The user
// type is not part of this request: it is fixed at registration.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty" binding:"omitempty,min=2,max=100"`
	Contact  *string `json:"contact,omitempty" binding:"omitempty,numeric,min=7,max=15"`
}

// UserResponse defines the full user representation returned to the account
// owner.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	UserType    string     `json:"user_type"`
	Contact     *string    `json:"contact,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// PublicUserResponse is the reduced representation served to other
// authenticated users: no email, no contact.
type PublicUserResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	UserType string    `json:"user_type"`
}

// ToUserResponse converts a shared.User to a UserResponse DTO.
func ToUserResponse(usr *shared.User) UserResponse {
	return UserResponse{
		ID:          usr.ID,
		Username:    usr.Name,
		Email:       usr.Email,
		UserType:    usr.Role,
		Contact:     usr.Contact,
		CreatedAt:   usr.CreatedAt,
		UpdatedAt:   usr.UpdatedAt,
		LastLoginAt: usr.LastLoginAt,
	}
}

// ToPublicUserResponse converts a shared.User to its public projection.
func ToPublicUserResponse(usr *shared.User) PublicUserResponse {
	return PublicUserResponse{
		ID:       usr.ID,
		Username: usr.Name,
		UserType: usr.Role,
	}
}
