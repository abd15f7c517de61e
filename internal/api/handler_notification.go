package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/NgigiN/lomba17/internal/storage"
)

type readRequest struct {
	Read *bool `json:"read" binding:"required"`
}

func (s *Server) listNotifications(c *gin.Context) {
	filter := storage.NotificationFilter{Limit: storage.DefaultNotificationLimit}
	if raw := c.Query("unreadOnly"); raw != "" {
		unread, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, invalid("invalid unreadOnly %q", raw))
			return
		}
		filter.UnreadOnly = unread
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(c, invalid("invalid limit %q", raw))
			return
		}
		filter.Limit = limit
	}

	notifications, err := s.db.ListNotifications(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (s *Server) setNotificationRead(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	var req readRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, invalid("%v", err))
		return
	}
	if err := s.db.SetNotificationRead(c.Request.Context(), id, *req.Read); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "read": *req.Read})
}

func (s *Server) markAllNotificationsRead(c *gin.Context) {
	updated, err := s.db.MarkAllNotificationsRead(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (s *Server) deleteNotification(c *gin.Context) {
	id, err := idParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.db.DeleteNotification(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}
