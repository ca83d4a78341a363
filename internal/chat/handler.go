// File: internal/chat/handler.go
package chat

import (
	"errors"
	"strconv"

	"farmlink_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for chat handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new chat handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes sets up the routes for chat operations. Every route requires
// authentication.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	chatGroup := router.Group("/chats")
	chatGroup.Use(authMW)
	{
		chatGroup.GET("", h.listConversations)
		chatGroup.POST("", h.startConversation)
		chatGroup.GET("/:id/messages", h.getMessages)
		chatGroup.POST("/:id/messages", h.sendMessage)
	}
}

func (h *Handler) listConversations(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}
	conversations, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Conversations retrieved successfully.", ToConversationResponses(conversations))
}

func (h *Handler) startConversation(c *gin.Context) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Start conversation: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	cv, wasCreated, err := h.service.StartConversation(c.Request.Context(), userID, req.UserID)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	if wasCreated {
		common.RespondCreated(c, "Conversation created successfully.", ToConversationResponse(cv))
		return
	}
	common.RespondOK(c, "Conversation retrieved successfully.", ToConversationResponse(cv))
}

func (h *Handler) getMessages(c *gin.Context) {
	conversationID, ok := h.parseConversationIDParam(c)
	if !ok {
		return
	}
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	messages, pagination, err := h.service.GetMessages(c.Request.Context(), conversationID, userID, page, pageSize)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondPaginated(c, "Messages retrieved successfully.", ToMessageResponses(messages), pagination)
}

func (h *Handler) sendMessage(c *gin.Context) {
	conversationID, ok := h.parseConversationIDParam(c)
	if !ok {
		return
	}
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Send message: Invalid request body", zap.Error(err))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	msg, err := h.service.SendMessage(c.Request.Context(), conversationID, userID, req.Body)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Message sent successfully.", ToMessageResponse(msg))
}

func (h *Handler) parseConversationIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid conversation ID format."))
		return uuid.Nil, false
	}
	return id, true
}
