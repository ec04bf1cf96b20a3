package server

import (
	"fmt"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Second,
		Limit: 5,
	})
	sendLimit := limitRateForMessageSend(store)

	apirouter := router.Group("/api/v1")

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())

	authorized.POST("/conversations", s.handleCreateConversation())
	authorized.POST("/conversations/from-listing", s.handleCreateConversationFromListing())
	authorized.GET("/conversations", s.handleListConversations())
	authorized.GET("/conversations/unread-count", s.handleGetMessageUnreadCount())
	authorized.GET("/conversations/:id/messages", s.handleGetConversationMessages())
	authorized.POST("/conversations/:id/messages", sendLimit, s.handleSendMessage())
	authorized.PUT("/conversations/:id/read", s.handleMarkConversationRead())
	authorized.DELETE("/conversations/:id", s.handleHideConversation())

	authorized.GET("/notifications", s.handleListNotifications())
	authorized.GET("/notifications/unread-count", s.handleGetNotificationUnreadCount())
	authorized.POST("/notifications/:id/read", s.handleMarkNotificationRead())
	authorized.POST("/notifications/read-all", s.handleMarkAllNotificationsRead())
}
