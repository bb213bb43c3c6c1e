package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"docutrack/internal/app"
	"docutrack/internal/transport/http/response"
)

type NotificationHandler struct {
	notifications *app.NotificationService
}

func NewNotificationHandler(notifications *app.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// recipient resolves the inbox being read: the userId query parameter when
// present (shared inboxes like staff@company.com), otherwise the caller's
// own email.
func (h *NotificationHandler) recipient(c *gin.Context) string {
	if userID := c.Query("userId"); userID != "" {
		return userID
	}
	return actorEmail(c)
}

func (h *NotificationHandler) List(c *gin.Context) {
	items, err := h.notifications.List(h.recipient(c))
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, 400, response.CodeBadRequest, "missing recipient")
			return
		}
		response.Error(c, 500, response.CodeInternalServer, "list notifications failed")
		return
	}
	response.OK(c, items)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, 400, response.CodeBadRequest, "invalid notification id")
		return
	}

	if err := h.notifications.MarkRead(uint(id)); err != nil {
		if errors.Is(err, app.ErrNotificationNotFound) {
			response.Error(c, 404, response.CodeNotificationNotFound, "notification not found")
			return
		}
		response.Error(c, 500, response.CodeInternalServer, "mark notification read failed")
		return
	}
	response.OK(c, nil)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	count, err := h.notifications.UnreadCount(h.recipient(c))
	if err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, 400, response.CodeBadRequest, "missing recipient")
			return
		}
		response.Error(c, 500, response.CodeInternalServer, "count notifications failed")
		return
	}
	response.OK(c, gin.H{"unread": count})
}
