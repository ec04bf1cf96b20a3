package server

import (
	"net/http"

	errs "github.com/ekremdev/pazarca/errors"
	"github.com/ekremdev/pazarca/server/response"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleListNotifications() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		rows, err := s.NotificationService.ListForUser(userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, rows, nil)
	}
}

func (s *Server) handleGetNotificationUnreadCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		count, err := s.NotificationService.UnreadCount(userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"unreadCount": count}, nil)
	}
}

func (s *Server) handleMarkNotificationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		if err := s.NotificationService.MarkRead(c.Request.Context(), []string{c.Param("id")}, userID); err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "notification marked read", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleMarkAllNotificationsRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		if err := s.NotificationService.MarkAllRead(c.Request.Context(), userID); err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "all notifications marked read", http.StatusOK, nil, nil)
	}
}
