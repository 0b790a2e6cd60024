package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joincivil/civil-newsroom-plugin/internal/services"
	"github.com/joincivil/civil-newsroom-plugin/internal/store"
)

type AuthMiddleware struct {
	sessions *services.SessionService
	users    store.UserDirectory
}

func NewAuthMiddleware(sessions *services.SessionService, users store.UserDirectory) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		users:    users,
	}
}

// RequireAuth gates write endpoints behind a valid session cookie. The
// permission check runs before any mutation.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken, err := c.Cookie("session_token")
		if err != nil {
			am.forbid(c)
			return
		}

		userID, valid := am.sessions.Validate(sessionToken)
		if !valid {
			am.forbid(c)
			return
		}

		user, err := am.users.GetUser(c.Request.Context(), userID)
		if err != nil {
			am.forbid(c)
			return
		}

		c.Set("userID", user.ID)
		c.Set("username", user.Username)
		c.Set("role", string(user.Role))
		c.Next()
	}
}

func (am *AuthMiddleware) forbid(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":   "forbidden",
		"message": "Insufficient permissions.",
	})
}
