package server

import (
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	errs "github.com/ekremdev/pazarca/errors"
	"github.com/ekremdev/pazarca/server/response"
	"github.com/ekremdev/pazarca/services/jwt"
	"github.com/gin-gonic/gin"
)

// Authorize validates the bearer token and injects the caller's identity.
// Token issuance belongs to the auth service; only validation happens here.
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		accessClaims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		userID, ok := accessClaims["id"].(string)
		if !ok || userID == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		c.Set("userID", userID)
		if role, ok := accessClaims["role"].(string); ok {
			c.Set("userRole", role)
		}
		c.Next()
	}
}

func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

func respondAndAbort(c *gin.Context, message string, status int, data interface{}, err error) {
	response.JSON(c, message, status, data, err)
	c.Abort()
}

// currentUserID pulls the identity Authorize stored on the context.
func currentUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get("userID")
	if !ok {
		return "", false
	}
	userID, ok := v.(string)
	return userID, ok && userID != ""
}

func limitRateForMessageSend(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler:   errs.ErrorHandler,
		KeyFunc:        keyFunc,
		BeforeResponse: nil,
	})
}

// keyFunc throttles per user once authorized, per client IP otherwise.
func keyFunc(c *gin.Context) string {
	if userID, ok := currentUserID(c); ok {
		return userID
	}
	return c.ClientIP()
}
