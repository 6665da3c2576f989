package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ABIRENIS/Jero-CRM/internal/domain"
	"github.com/ABIRENIS/Jero-CRM/internal/service"
	"github.com/ABIRENIS/Jero-CRM/pkg/log"
	"github.com/ABIRENIS/Jero-CRM/pkg/response"
)

const (
	msgEditExpired   = "Edit time expired. Messages can only be edited within 5 minutes."
	msgDeleteExpired = "Delete time expired. Messages can only be deleted within 5 minutes."
)

// HTTPHandler handles the request/response side of the CRM.
type HTTPHandler struct {
	engineers service.EngineerService
	chat      service.ChatService
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(engineers service.EngineerService, chat service.ChatService) *HTTPHandler {
	return &HTTPHandler{
		engineers: engineers,
		chat:      chat,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/engineers/add", h.AddEngineer)
		api.GET("/engineers/stats", h.Stats)
		api.GET("/engineers/:groupType", h.ListGroup)

		api.POST("/engineer/login", h.Login)
		api.POST("/engineer/logout", h.Logout)

		api.GET("/chat/:engineer_id", h.ChatHistory)
		api.PUT("/chat/edit", h.EditMessage)
		api.DELETE("/chat/delete/:id", h.DeleteMessage)
	}
}

// AddEngineer registers a new engineer.
func (h *HTTPHandler) AddEngineer(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.AddEngineerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("failed to bind add engineer request")
		response.FailError(c, http.StatusBadRequest, err.Error())
		return
	}

	eng, err := h.engineers.Register(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownGroup) {
			response.FailError(c, http.StatusBadRequest, "unknown group_type")
			return
		}
		l.Error().Err(err).Msg("failed to register engineer")
		response.FailError(c, http.StatusInternalServerError, "failed to register engineer")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "engineer": eng})
}

// Login verifies engineer credentials and flips presence Online.
func (h *HTTPHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	eng, err := h.engineers.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.FailMessage(c, http.StatusUnauthorized, "Invalid Credentials!")
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, "Server error")
		return
	}

	response.OK(c, domain.LoginResponse{
		Success:    true,
		ID:         eng.ID,
		Name:       eng.Name,
		EngineerID: eng.EngineerID,
		Email:      eng.Email,
	})
}

// Logout flips the engineer's presence Offline.
func (h *HTTPHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailMessage(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.engineers.Logout(ctx, req.EngineerID); err != nil {
		if errors.Is(err, service.ErrEngineerNotFound) {
			response.NotFound(c, "engineer not found")
			return
		}
		l.Error().Err(err).Msg("logout failed")
		response.InternalError(c, "Server error")
		return
	}

	response.Success(c)
}

// Stats returns per-department total/online counts.
func (h *HTTPHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	stats, err := h.engineers.Stats(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to load group stats")
		response.InternalError(c, "Database fetch failed")
		return
	}

	response.OK(c, stats)
}

// ListGroup returns all engineers of one department.
func (h *HTTPHandler) ListGroup(c *gin.Context) {
	ctx := c.Request.Context()

	engineers, err := h.engineers.ListByGroup(ctx, c.Param("groupType"))
	if err != nil {
		if errors.Is(err, service.ErrUnknownGroup) {
			response.BadRequest(c, "unknown group")
			return
		}
		log.Ctx(ctx).Error().Err(err).Msg("failed to list engineers")
		response.InternalError(c, "Server Error")
		return
	}

	response.OK(c, engineers)
}

// ChatHistory returns an engineer's conversation in creation order.
func (h *HTTPHandler) ChatHistory(c *gin.Context) {
	ctx := c.Request.Context()

	engineerID, err := strconv.ParseUint(c.Param("engineer_id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid engineer id")
		return
	}

	messages, err := h.chat.History(ctx, uint(engineerID))
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to load chat history")
		response.InternalError(c, "History load failed")
		return
	}

	response.OK(c, messages)
}

// EditMessage rewrites a message's text within the five-minute window.
func (h *HTTPHandler) EditMessage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.chat.EditMessage(ctx, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			response.NotFound(c, "message not found")
		case errors.Is(err, service.ErrEditWindowExpired):
			response.Forbidden(c, msgEditExpired)
		default:
			l.Error().Err(err).Uint(log.FieldMessageID, req.MessageID).Msg("failed to edit message")
			response.InternalError(c, "Server error")
		}
		return
	}

	response.Success(c)
}

// DeleteMessage removes a message within the five-minute window.
func (h *HTTPHandler) DeleteMessage(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	messageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid message id")
		return
	}

	if err := h.chat.DeleteMessage(ctx, uint(messageID)); err != nil {
		switch {
		case errors.Is(err, service.ErrMessageNotFound):
			response.NotFound(c, "message not found")
		case errors.Is(err, service.ErrDeleteWindowExpired):
			response.Forbidden(c, msgDeleteExpired)
		default:
			l.Error().Err(err).Uint(log.FieldMessageID, uint(messageID)).Msg("failed to delete message")
			response.InternalError(c, "Server error")
		}
		return
	}

	response.Success(c)
}
