package server

import (
	"net/http"

	errs "github.com/ekremdev/pazarca/errors"
	"github.com/ekremdev/pazarca/models"
	"github.com/ekremdev/pazarca/server/response"
	"github.com/gin-gonic/gin"
	"github.com/leebenson/conform"
)

func (s *Server) handleCreateConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var req models.CreateConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("receiverId is required", http.StatusBadRequest))
			return
		}
		if err := conform.Strings(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid request body", http.StatusBadRequest))
			return
		}

		conv, err := s.ConversationService.GetOrCreate(userID, req.ReceiverID, req.ListingID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "conversation ready", http.StatusOK, conv, nil)
	}
}

func (s *Server) handleCreateConversationFromListing() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var req models.CreateFromListingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("listingId is required", http.StatusBadRequest))
			return
		}
		if err := conform.Strings(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid request body", http.StatusBadRequest))
			return
		}

		conv, err := s.ConversationService.CreateFromListing(req.ListingID, userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "conversation ready", http.StatusOK, conv, nil)
	}
}

func (s *Server) handleListConversations() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		summaries, err := s.ConversationService.ListForUser(userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, summaries, nil)
	}
}

func (s *Server) handleGetConversationMessages() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		msgs, err := s.ConversationService.GetMessages(c.Param("id"), userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, msgs, nil)
	}
}

func (s *Server) handleSendMessage() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		var req models.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.ErrEmptyMessageBody)
			return
		}
		if err := conform.Strings(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("invalid request body", http.StatusBadRequest))
			return
		}

		msg, err := s.MessageService.Send(c.Request.Context(), c.Param("id"), userID, req.Content)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "message sent", http.StatusOK, msg, nil)
	}
}

func (s *Server) handleMarkConversationRead() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		if err := s.MessageService.MarkRead(c.Request.Context(), c.Param("id"), userID); err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "read status updated", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleHideConversation() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		if err := s.MessageService.Hide(c.Request.Context(), c.Param("id"), userID); err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "conversation hidden", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleGetMessageUnreadCount() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		total, err := s.MessageService.UnreadTotal(userID)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"count": total}, nil)
	}
}

// respondServiceError maps service failures to the wire: known errors keep
// their status, everything else is a generic 500.
func respondServiceError(c *gin.Context, err error) {
	if e, ok := err.(*errs.Error); ok {
		response.JSON(c, "", e.Status, nil, e)
		return
	}
	response.JSON(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
}
