// File: internal/user/handler.go
package user

import (
	"errors"

	"farmlink_backend/internal/common"
	"farmlink_backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for user handlers.
type Handler struct {
	service shared.Service
	logger  *zap.Logger
}

// NewHandler creates a new user handler.
func NewHandler(service shared.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for user operations. The public profile
// projection is served without authentication; everything else requires it.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	userGroup := router.Group("/users")
	{
		userGroup.GET("/:id/public", h.getPublicProfile)

		userGroup.GET("/me", authMW, h.getMe)
		userGroup.PUT("/me", authMW, h.updateMe)
		userGroup.GET("/:id", authMW, h.getUserByID)
	}
}

func (h *Handler) getMe(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		h.logger.Error("User ID not found in context for /me", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	usr, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile retrieved successfully.", ToUserResponse(usr))
}

func (h *Handler) updateMe(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Profile update: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	usr, err := h.service.UpdateProfile(c.Request.Context(), userID, shared.UpdateProfileRequest{
		Name:    req.Username,
		Contact: req.Contact,
	})
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User profile updated successfully.", ToUserResponse(usr))
}

// getUserByID serves the full profile, and only to its owner. Other users
// must go through the public projection.
func (h *Handler) getUserByID(c *gin.Context) {
	targetID, ok := h.parseUserIDParam(c)
	if !ok {
		return
	}
	requestingUserID := common.GetUserIDFromContext(c)
	if requestingUserID != targetID {
		h.logger.Warn("User attempting to fetch another user's full profile",
			zap.String("requestingUserID", requestingUserID.String()),
			zap.String("targetUserID", targetID.String()))
		common.RespondWithError(c, common.ErrForbidden.WithDetails("You are not authorized to view this profile."))
		return
	}
	usr, err := h.service.GetUserByID(c.Request.Context(), targetID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User retrieved successfully.", ToUserResponse(usr))
}

func (h *Handler) getPublicProfile(c *gin.Context) {
	targetID, ok := h.parseUserIDParam(c)
	if !ok {
		return
	}
	usr, err := h.service.GetUserByID(c.Request.Context(), targetID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "User retrieved successfully.", ToPublicUserResponse(usr))
}

func (h *Handler) parseUserIDParam(c *gin.Context) (uuid.UUID, bool) {
	paramID := c.Param("id")
	id, err := uuid.Parse(paramID)
	if err != nil {
		h.logger.Warn("Invalid user ID format in URL parameter", zap.String("paramID", paramID), zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid user ID format."))
		return uuid.Nil, false
	}
	return id, true
}
