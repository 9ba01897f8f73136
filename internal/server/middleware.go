package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const ctxUserID = "userID"

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// requireAuth verifies the bearer credential and binds the user id to the
// request context. The response is identical for every failure mode.
func (s *Server) requireAuth(c *gin.Context) {
	userID, err := s.tokens.VerifyAccess(bearerToken(c.Request))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "not authorized",
		})
		return
	}
	c.Set(ctxUserID, userID)
	c.Next()
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(ctxUserID)
}
