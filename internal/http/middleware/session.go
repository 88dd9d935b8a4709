package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dedeku/tinicoach/domain"
)

// Context keys set by RequireSession.
const (
	ContextAccount      = "account"
	ContextSessionToken = "session_token"
)

// RequireSession authenticates the request from the session cookie. The
// bound account and the raw token are placed in the gin context for
// downstream handlers.
func RequireSession(sessionSvc domain.SessionService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged in"})
			c.Abort()
			return
		}

		account, err := sessionSvc.Validate(c.Request.Context(), token)
		if err != nil || account == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You are not logged in"})
			c.Abort()
			return
		}

		c.Set(ContextAccount, account)
		c.Set(ContextSessionToken, token)
		c.Next()
	}
}

// AccountFromContext returns the authenticated account placed in the context
// by RequireSession.
func AccountFromContext(c *gin.Context) (*domain.Account, bool) {
	v, ok := c.Get(ContextAccount)
	if !ok {
		return nil, false
	}
	account, ok := v.(*domain.Account)
	return account, ok
}
