// File: internal/post/handler.go
package post

import (
	"errors"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for post handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new post handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for post operations. Browsing is public;
// creating and modifying require an authenticated farmer or buyer account, so
// a token minted with any other role value is rejected before handler logic.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	postGroup := router.Group("/posts")
	{
		postGroup.GET("", h.searchPosts)
		postGroup.GET("/:id", h.getPostByID)

		authedPostGroup := postGroup.Group("")
		authedPostGroup.Use(authMW, middleware.RoleAuthMiddleware(common.RoleFarmer, common.RoleBuyer))
		{
			authedPostGroup.POST("", h.createPost)
			authedPostGroup.PUT("/:id", h.updatePost)
			authedPostGroup.DELETE("/:id", h.deletePost)
		}
	}
}

func (h *Handler) searchPosts(c *gin.Context) {
	var query PostSearchQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.logger.Warn("Search posts: Invalid query parameters", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid query parameters: "+err.Error()))
		return
	}

	if rawAuthorID := c.Query("author_id"); rawAuthorID != "" {
		authorID, err := uuid.Parse(rawAuthorID)
		if err != nil {
			common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid author_id format."))
			return
		}
		query.AuthorID = &authorID
	}

	posts, pagination, err := h.service.SearchPosts(c.Request.Context(), query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Posts retrieved successfully.", ToPostResponses(posts), pagination)
}

func (h *Handler) getPostByID(c *gin.Context) {
	postID, ok := h.parsePostIDParam(c)
	if !ok {
		return
	}
	p, err := h.service.GetPostByID(c.Request.Context(), postID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Post retrieved successfully.", ToPostResponse(p))
}

func (h *Handler) createPost(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	userRole := common.GetUserRoleFromContext(c)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Create post: Invalid request body", zap.Error(err), zap.String("userID", userID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	p, err := h.service.CreatePost(c.Request.Context(), userID, userRole, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Post created successfully.", ToPostResponse(p))
}

func (h *Handler) updatePost(c *gin.Context) {
	postID, ok := h.parsePostIDParam(c)
	if !ok {
		return
	}
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Update post: Invalid request body", zap.Error(err), zap.String("postID", postID.String()))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	p, err := h.service.UpdatePost(c.Request.Context(), postID, userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Post updated successfully.", ToPostResponse(p))
}

func (h *Handler) deletePost(c *gin.Context) {
	postID, ok := h.parsePostIDParam(c)
	if !ok {
		return
	}
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	if err := h.service.DeletePost(c.Request.Context(), postID, userID); err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondNoContent(c)
}

func (h *Handler) parsePostIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid post ID format."))
		return uuid.Nil, false
	}
	return id, true
}
