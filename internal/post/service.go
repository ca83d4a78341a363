package post

import (
	"context"
	"fmt"
	"time"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for post business logic.
type Service interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, authorRole string, req CreatePostRequest) (*Post, error)
	GetPostByID(ctx context.Context, id uuid.UUID) (*Post, error)
	SearchPosts(ctx context.Context, query PostSearchQuery) ([]Post, *common.Pagination, error)
	UpdatePost(ctx context.Context, id, requestingUserID uuid.UUID, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, id, requestingUserID uuid.UUID) error
	CloseStalePosts(ctx context.Context) (int64, error)
}

type service struct {
	repo   Repository
	cfg    *config.Config
	logger *zap.Logger
}

var _ Service = (*service)(nil)

// NewService creates a new post service.
func NewService(repo Repository, cfg *config.Config, logger *zap.Logger) Service {
	return &service{repo: repo, cfg: cfg, logger: logger}
}

// CreatePost builds and persists a post shaped by the author's role. A farmer
// must provide crop fields, a buyer must provide requirement fields; fields
// belonging to the other role are discarded.
func (s *service) CreatePost(ctx context.Context, authorID uuid.UUID, authorRole string, req CreatePostRequest) (*Post, error) {
	p := &Post{
		AuthorID:   authorID,
		AuthorRole: authorRole,
		Location:   req.Location,
		Price:      req.Price,
		Unit:       req.Unit,
		Status:     StatusOpen,
	}

	switch authorRole {
	case common.RoleFarmer:
		if req.CropName == nil || *req.CropName == "" {
			return nil, common.ErrBadRequest.WithDetails("Farmer posts require a crop_name.")
		}
		p.CropName = req.CropName
		p.CropDetails = req.CropDetails
		p.Quantity = req.Quantity
	case common.RoleBuyer:
		if req.Requirements == nil || *req.Requirements == "" {
			return nil, common.ErrBadRequest.WithDetails("Buyer posts require requirements.")
		}
		p.Name = req.Name
		p.Organization = req.Organization
		p.Requirements = req.Requirements
	default:
		return nil, common.ErrForbidden.WithDetails("Unknown user type cannot create posts.")
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("Failed to create post", zap.Error(err), zap.String("authorID", authorID.String()))
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	s.logger.Info("Post created",
		zap.String("postID", p.ID.String()),
		zap.String("authorID", authorID.String()),
		zap.String("authorRole", authorRole))
	return p, nil
}

func (s *service) GetPostByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.FindByID(ctx, id, true)
}

func (s *service) SearchPosts(ctx context.Context, query PostSearchQuery) ([]Post, *common.Pagination, error) {
	return s.repo.Search(ctx, query)
}

// UpdatePost applies a partial update. Only the author may modify a post; a
// valid token belonging to anyone else yields a forbidden error, not an
// authentication one.
func (s *service) UpdatePost(ctx context.Context, id, requestingUserID uuid.UUID, req UpdatePostRequest) (*Post, error) {
	p, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != requestingUserID {
		s.logger.Warn("Non-owner attempted post update",
			zap.String("postID", id.String()),
			zap.String("requestingUserID", requestingUserID.String()))
		return nil, common.ErrForbidden.WithDetails("You can only modify your own posts.")
	}

	applyPostUpdate(&req, p)

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("Failed to update post", zap.Error(err), zap.String("postID", id.String()))
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return p, nil
}

// DeletePost removes a post after verifying ownership.
func (s *service) DeletePost(ctx context.Context, id, requestingUserID uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return err
	}
	if p.AuthorID != requestingUserID {
		s.logger.Warn("Non-owner attempted post delete",
			zap.String("postID", id.String()),
			zap.String("requestingUserID", requestingUserID.String()))
		return common.ErrForbidden.WithDetails("You can only delete your own posts.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete post", zap.Error(err), zap.String("postID", id.String()))
		return err
	}
	s.logger.Info("Post deleted", zap.String("postID", id.String()))
	return nil
}

// CloseStalePosts expires open posts older than the configured staleness
// window. Invoked by the scheduled job.
func (s *service) CloseStalePosts(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -s.cfg.PostStaleAfterDays)
	affected, err := s.repo.CloseStaleOpenPosts(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to close stale posts", zap.Error(err))
		return 0, err
	}
	if affected > 0 {
		s.logger.Info("Closed stale posts", zap.Int64("count", affected))
	}
	return affected, nil
}

func applyPostUpdate(req *UpdatePostRequest, p *Post) {
	switch p.AuthorRole {
	case common.RoleFarmer:
		if req.CropName != nil {
			p.CropName = req.CropName
		}
		if req.CropDetails != nil {
			p.CropDetails = req.CropDetails
		}
		if req.Quantity != nil {
			p.Quantity = req.Quantity
		}
	case common.RoleBuyer:
		if req.Name != nil {
			p.Name = req.Name
		}
		if req.Organization != nil {
			p.Organization = req.Organization
		}
		if req.Requirements != nil {
			p.Requirements = req.Requirements
		}
	}
	if req.Location != nil && *req.Location != "" {
		p.Location = *req.Location
	}
	if req.Price != nil {
		p.Price = req.Price
	}
	if req.Unit != nil {
		p.Unit = req.Unit
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
}
