// File: internal/post/model.go
package post

import (
	"time"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/user"

	"github.com/google/uuid"
)

// PostStatus represents the lifecycle state of a marketplace post.
type PostStatus string

const (
	StatusOpen    PostStatus = "open"
	StatusClosed  PostStatus = "closed"
	StatusExpired PostStatus = "expired"
)

// Post is a marketplace entry. A farmer post offers produce (crop fields), a
// buyer post states a purchase requirement (organization fields). AuthorRole
// records which shape applies and is fixed at creation.
type Post struct {
	common.BaseModel
	AuthorID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Author     *user.User `gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AuthorRole string     `gorm:"type:varchar(20);not null;index"`

	// Farmer fields
	CropName    *string `gorm:"type:varchar(150)"`
	CropDetails *string `gorm:"type:text"`
	Quantity    *string `gorm:"type:varchar(100)"`

	// Buyer fields
	Name         *string `gorm:"type:varchar(150)"`
	Organization *string `gorm:"type:varchar(150)"`
	Requirements *string `gorm:"type:text"`

	Location string     `gorm:"type:varchar(255);not null"`
	Price    *float64   `gorm:"type:decimal(10,2)"`
	Unit     *string    `gorm:"type:varchar(20)"`
	Status   PostStatus `gorm:"type:varchar(20);not null;default:'open';index"`
}

func (Post) TableName() string {
	return "posts"
}

// --- DTOs ---

// CreatePostRequest carries the fields for a new post. Which fields are
// required depends on the author's role; the service enforces that.
type CreatePostRequest struct {
	CropName     *string  `json:"crop_name,omitempty" binding:"omitempty,max=150"`
	CropDetails  *string  `json:"crop_details,omitempty"`
	Quantity     *string  `json:"quantity,omitempty" binding:"omitempty,max=100"`
	Name         *string  `json:"name,omitempty" binding:"omitempty,max=150"`
	Organization *string  `json:"organization,omitempty" binding:"omitempty,max=150"`
	Requirements *string  `json:"requirements,omitempty"`
	Location     string   `json:"location" binding:"required,max=255"`
	Price        *float64 `json:"price,omitempty" binding:"omitempty,gte=0"`
	Unit         *string  `json:"unit,omitempty" binding:"omitempty,max=20"`
}

// UpdatePostRequest carries partial updates. Absent fields are left unchanged.
type UpdatePostRequest struct {
	CropName     *string     `json:"crop_name,omitempty" binding:"omitempty,max=150"`
	CropDetails  *string     `json:"crop_details,omitempty"`
	Quantity     *string     `json:"quantity,omitempty" binding:"omitempty,max=100"`
	Name         *string     `json:"name,omitempty" binding:"omitempty,max=150"`
	Organization *string     `json:"organization,omitempty" binding:"omitempty,max=150"`
	Requirements *string     `json:"requirements,omitempty"`
	Location     *string     `json:"location,omitempty" binding:"omitempty,max=255"`
	Price        *float64    `json:"price,omitempty" binding:"omitempty,gte=0"`
	Unit         *string     `json:"unit,omitempty" binding:"omitempty,max=20"`
	Status       *PostStatus `json:"status,omitempty" binding:"omitempty,oneof=open closed"`
}

// PostSearchQuery holds the filter parameters for searching posts.
type PostSearchQuery struct {
	Role       string     `form:"role" binding:"omitempty,oneof=farmer buyer"`
	Location   string     `form:"location"`
	SearchTerm string     `form:"search"`
	AuthorID   *uuid.UUID `form:"-"` // bound manually in the handler
	Status     PostStatus `form:"status" binding:"omitempty,oneof=open closed expired"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// PostResponse is the API representation of a post.
type PostResponse struct {
	ID         uuid.UUID `json:"id"`
	AuthorID   uuid.UUID `json:"author_id"`
	AuthorName string    `json:"author_name,omitempty"`
	AuthorRole string    `json:"author_role"`

	CropName    *string `json:"crop_name,omitempty"`
	CropDetails *string `json:"crop_details,omitempty"`
	Quantity    *string `json:"quantity,omitempty"`

	Name         *string `json:"name,omitempty"`
	Organization *string `json:"organization,omitempty"`
	Requirements *string `json:"requirements,omitempty"`

	Location  string     `json:"location"`
	Price     *float64   `json:"price,omitempty"`
	Unit      *string    `json:"unit,omitempty"`
	Status    PostStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToPostResponse converts a Post model to its API representation.
func ToPostResponse(p *Post) PostResponse {
	resp := PostResponse{
		ID:           p.ID,
		AuthorID:     p.AuthorID,
		AuthorRole:   p.AuthorRole,
		CropName:     p.CropName,
		CropDetails:  p.CropDetails,
		Quantity:     p.Quantity,
		Name:         p.Name,
		Organization: p.Organization,
		Requirements: p.Requirements,
		Location:     p.Location,
		Price:        p.Price,
		Unit:         p.Unit,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if p.Author != nil {
		resp.AuthorName = p.Author.Name
	}
	return resp
}

// ToPostResponses converts a slice of posts.
func ToPostResponses(posts []Post) []PostResponse {
	responses := make([]PostResponse, 0, len(posts))
	for i := range posts {
		responses = append(responses, ToPostResponse(&posts[i]))
	}
	return responses
}
