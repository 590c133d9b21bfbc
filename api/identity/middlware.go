package identity

import (
	"net/http"
	"strings"

	"github.com/beka-birhanu/vinom-nav/service/i"
	"github.com/gin-gonic/gin"
)

const (
	// ContextSessionClaims is the key used to store session claims in the Gin context.
	ContextSessionClaims = "sessionClaims"

	// ClaimSessionID names the claim holding the session a token grants access to.
	ClaimSessionID = "session_id"
)

// Authoriz rejects requests without a valid bearer token and stores its claims
// under ContextSessionClaims.
func Authoriz(ts i.Tokenizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Retrieve the access token from the Authorization header.
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		// Split the "Bearer" prefix from the token.
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := ts.Decode(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextSessionClaims, claims)
		c.Next()
	}
}

// SessionID returns the session claim stored by Authoriz.
func SessionID(c *gin.Context) (string, bool) {
	raw, ok := c.Get(ContextSessionClaims)
	if !ok {
		return "", false
	}
	claims, ok := raw.(map[string]interface{})
	if !ok {
		return "", false
	}
	id, ok := claims[ClaimSessionID].(string)
	return id, ok
}
