// File: internal/post/repository.go
package post

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"farmlink_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for post data operations.
type Repository interface {
	Create(ctx context.Context, post *Post) error
	FindByID(ctx context.Context, id uuid.UUID, preloadAuthor bool) (*Post, error)
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query PostSearchQuery) ([]Post, *common.Pagination, error)
	CloseStaleOpenPosts(ctx context.Context, olderThan time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM post repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Create inserts a new post record into the database.
func (r *gormRepository) Create(ctx context.Context, post *Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// FindByID retrieves a post by its ID.
func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID, preloadAuthor bool) (*Post, error) {
	var p Post
	query := r.db.WithContext(ctx)
	if preloadAuthor {
		query = query.Preload("Author")
	}
	err := query.First(&p, "posts.id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Post not found.")
		}
		return nil, err
	}
	return &p, nil
}

// Update saves the full post record.
func (r *gormRepository) Update(ctx context.Context, post *Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return nil
}

// Delete removes a post by ID.
func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Post{BaseModel: common.BaseModel{ID: id}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Post not found or already deleted.")
	}
	return nil
}

// Search retrieves posts matching the query parameters, newest first.
func (r *gormRepository) Search(ctx context.Context, queryParams PostSearchQuery) ([]Post, *common.Pagination, error) {
	var posts []Post
	var totalItems int64

	dbQuery := r.db.WithContext(ctx).Model(&Post{}).Preload("Author")

	if queryParams.Role != "" {
		dbQuery = dbQuery.Where("posts.author_role = ?", queryParams.Role)
	}
	if queryParams.AuthorID != nil && *queryParams.AuthorID != uuid.Nil {
		dbQuery = dbQuery.Where("posts.author_id = ?", *queryParams.AuthorID)
	}
	if queryParams.Status != "" {
		dbQuery = dbQuery.Where("posts.status = ?", queryParams.Status)
	}
	if queryParams.Location != "" {
		locationTerm := "%" + strings.ToLower(queryParams.Location) + "%"
		dbQuery = dbQuery.Where("LOWER(posts.location) LIKE ?", locationTerm)
	}
	if queryParams.SearchTerm != "" {
		searchTerm := "%" + strings.ToLower(queryParams.SearchTerm) + "%"
		dbQuery = dbQuery.Where(
			"LOWER(posts.crop_name) LIKE ? OR LOWER(posts.crop_details) LIKE ? OR LOWER(posts.requirements) LIKE ? OR LOWER(posts.organization) LIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm)
	}

	if err := dbQuery.Count(&totalItems).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to count posts: %w", err)
	}

	pagination := common.NewPagination(totalItems, queryParams.Page, queryParams.PageSize)
	offset := (pagination.CurrentPage - 1) * pagination.PageSize

	err := dbQuery.
		Order("posts.created_at DESC").
		Offset(offset).
		Limit(pagination.PageSize).
		Find(&posts).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to search posts: %w", err)
	}

	return posts, pagination, nil
}

// CloseStaleOpenPosts marks open posts created before the cutoff as expired.
// Returns the number of posts affected.
func (r *gormRepository) CloseStaleOpenPosts(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Post{}).
		Where("status = ? AND created_at < ?", StatusOpen, olderThan).
		Updates(map[string]interface{}{"status": StatusExpired, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}
