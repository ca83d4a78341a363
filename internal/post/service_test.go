package post

import (
	"context"
	"testing"
	"time"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockPostRepository is a mock type for post.Repository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, p *Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID, preloadAuthor bool) (*Post, error) {
	args := m.Called(ctx, id, preloadAuthor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, p *Post) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) Search(ctx context.Context, query PostSearchQuery) ([]Post, *common.Pagination, error) {
	args := m.Called(ctx, query)
	var posts []Post
	if args.Get(0) != nil {
		posts = args.Get(0).([]Post)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return posts, pagination, args.Error(2)
}

func (m *MockPostRepository) CloseStaleOpenPosts(ctx context.Context, olderThan time.Time) (int64, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).(int64), args.Error(1)
}

func strPtr(s string) *string { return &s }

func newTestPostService(repo Repository) Service {
	return NewService(repo, &config.Config{PostStaleAfterDays: 30}, zap.NewNop())
}

func TestCreatePost_FarmerShape(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := newTestPostService(mockRepo)
	ctx := context.Background()
	authorID := uuid.New()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*post.Post")).Return(nil)

	price := 80.0
	p, err := svc.CreatePost(ctx, authorID, common.RoleFarmer, CreatePostRequest{
		CropName:    strPtr("Teff"),
		CropDetails: strPtr("Red teff, harvested this month."),
		Quantity:    strPtr("50 quintals"),
		Location:    "Adama",
		Price:       &price,
		Unit:        strPtr("quintal"),
		// Buyer-only fields must be ignored for a farmer post.
		Organization: strPtr("Should Be Dropped Inc."),
		Requirements: strPtr("should be dropped"),
	})
	require.NoError(t, err)

	assert.Equal(t, authorID, p.AuthorID)
	assert.Equal(t, common.RoleFarmer, p.AuthorRole)
	assert.Equal(t, StatusOpen, p.Status)
	require.NotNil(t, p.CropName)
	assert.Equal(t, "Teff", *p.CropName)
	require.NotNil(t, p.Price)
	assert.Equal(t, 80.0, *p.Price)
	assert.Nil(t, p.Organization)
	assert.Nil(t, p.Requirements)

	mockRepo.AssertExpectations(t)
}

func TestCreatePost_BuyerShape(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := newTestPostService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.AnythingOfType("*post.Post")).Return(nil)

	p, err := svc.CreatePost(ctx, uuid.New(), common.RoleBuyer, CreatePostRequest{
		Name:         strPtr("Bulk grain purchase"),
		Organization: strPtr("Addis Mills"),
		Requirements: strPtr("Looking for 200 quintals of wheat."),
		Location:     "Addis Ababa",
		CropName:     strPtr("should be dropped"),
	})
	require.NoError(t, err)

	assert.Equal(t, common.RoleBuyer, p.AuthorRole)
	require.NotNil(t, p.Requirements)
	assert.Equal(t, "Looking for 200 quintals of wheat.", *p.Requirements)
	assert.Nil(t, p.CropName)
}

func TestCreatePost_MissingRoleFields(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := newTestPostService(mockRepo)
	ctx := context.Background()

	_, err := svc.CreatePost(ctx, uuid.New(), common.RoleFarmer, CreatePostRequest{
		Location: "Bahir Dar",
	})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	_, err = svc.CreatePost(ctx, uuid.New(), common.RoleBuyer, CreatePostRequest{
		Location: "Bahir Dar",
	})
	assert.ErrorIs(t, err, common.ErrBadRequest)

	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePost_UnknownRole(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := newTestPostService(mockRepo)

	_, err := svc.CreatePost(context.Background(), uuid.New(), "admin", CreatePostRequest{
		CropName: strPtr("Maize"),
		Location: "Hawassa",
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := newTestPostService(mockRepo)
	ctx := context.Background()

	ownerID := uuid.New()
	postID := uuid.New()
	mockRepo.On("FindByID", ctx, postID, false).Return(&Post{
		BaseModel:  common.BaseModel{ID: postID},
		AuthorID:   ownerID,
		AuthorRole: common.RoleFarmer,
		CropName:   strPtr("Teff"),
		Location:   "Adama",
		Status:     StatusOpen,
	}, nil)

	_, err := svc.UpdatePost(ctx, postID, uuid.New(), UpdatePostRequest{
		CropName: strPtr("Wheat"),
	})
	assert.ErrorIs(t, err, common.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdatePost_AppliesRoleFields(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := newTestPostService(mockRepo)
	ctx := context.Background()

	ownerID := uuid.New()
	postID := uuid.New()
	mockRepo.On("FindByID", ctx, postID, false).Return(&Post{
		BaseModel:  common.BaseModel{ID: postID},
		AuthorID:   ownerID,
		AuthorRole: common.RoleFarmer,
		CropName:   strPtr("Teff"),
		Location:   "Adama",
		Status:     StatusOpen,
	}, nil)
	mockRepo.On("Update", ctx, mock.AnythingOfType("*post.Post")).Return(nil)

	closed := StatusClosed
	p, err := svc.UpdatePost(ctx, postID, ownerID, UpdatePostRequest{
		CropName: strPtr("Wheat"),
		// Buyer fields never apply to a farmer post.
		Requirements: strPtr("should be dropped"),
		Status:       &closed,
	})
	require.NoError(t, err)
	assert.Equal(t, "Wheat", *p.CropName)
	assert.Nil(t, p.Requirements)
	assert.Equal(t, StatusClosed, p.Status)
}

func TestDeletePost_OwnerOnly(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := newTestPostService(mockRepo)
	ctx := context.Background()

	ownerID := uuid.New()
	postID := uuid.New()
	mockRepo.On("FindByID", ctx, postID, false).Return(&Post{
		BaseModel: common.BaseModel{ID: postID},
		AuthorID:  ownerID,
	}, nil)

	err := svc.DeletePost(ctx, postID, uuid.New())
	assert.ErrorIs(t, err, common.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	mockRepo.On("Delete", ctx, postID).Return(nil)
	require.NoError(t, svc.DeletePost(ctx, postID, ownerID))
}

func TestDeletePost_NotFound(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := newTestPostService(mockRepo)
	ctx := context.Background()

	postID := uuid.New()
	mockRepo.On("FindByID", ctx, postID, false).Return(nil, common.ErrNotFound.WithDetails("not found"))

	err := svc.DeletePost(ctx, postID, uuid.New())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCloseStalePosts_CutoffFromConfig(t *testing.T) {
	mockRepo := new(MockPostRepository)
	svc := newTestPostService(mockRepo)
	ctx := context.Background()

	mockRepo.On("CloseStaleOpenPosts", ctx, mock.AnythingOfType("time.Time")).Return(int64(3), nil)

	affected, err := svc.CloseStalePosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)

	cutoff := mockRepo.Calls[0].Arguments.Get(1).(time.Time)
	expected := time.Now().AddDate(0, 0, -30)
	assert.WithinDuration(t, expected, cutoff, 5*time.Second)
}
