package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/qoach/quiz-backend/internal/service"
)

type NotificationHandler struct {
	service *service.NotificationService
}

func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) List(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	p := bindPagination(c)
	unreadOnly, _ := strconv.ParseBool(c.Query("unread_only"))

	ctx := c.Request.Context()
	page, err := h.service.List(ctx, callerID, unreadOnly, p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	notificationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if err := h.service.MarkAsRead(ctx, callerID, notificationID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	callerID, ok := currentUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	count, err := h.service.MarkAllAsRead(ctx, callerID)
	if err != nil {
		respondError(c, err)
		return
	}

	plural := "s"
	if count == 1 {
		plural = ""
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      fmt.Sprintf("%d notification%s marked as read", count, plural),
		"marked_count": count,
	})
}
