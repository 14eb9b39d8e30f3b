// Package middleware provides gin handlers that gate routes on credgate
// access tokens and roles.
//
// Guard rejects a missing or non-Bearer Authorization header before any
// token parsing happens, and every parse failure maps to the same response
// so callers cannot distinguish expired from forged tokens. RequireRole
// re-reads the subject's role from the store on every request; a stale role
// baked into an old token never grants access.
package middleware

import (
	"net/http"
	"strings"

	"github.com/MrEthical07/credgate"
	"github.com/gin-gonic/gin"
)

const subjectContextKey = "credgate.subject"

// SubjectFromContext returns the authenticated user ID set by [Guard].
func SubjectFromContext(c *gin.Context) (string, bool) {
	subject, ok := c.Get(subjectContextKey)
	if !ok {
		return "", false
	}
	id, ok := subject.(string)
	return id, ok && id != ""
}

// Guard authenticates the request's Bearer access token and stores the
// subject user ID in the gin context.
func Guard(engine *credgate.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization denied",
			})
			return
		}

		subject, err := engine.ValidateAccess(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Invalid token",
			})
			return
		}

		c.Set(subjectContextKey, subject)
		c.Next()
	}
}

// RequireRole authorizes the authenticated subject against the allowed
// roles with a fresh store lookup. It must run after [Guard].
func RequireRole(engine *credgate.Engine, roles ...credgate.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject, ok := SubjectFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization denied",
			})
			return
		}

		if err := engine.Authorize(c.Request.Context(), subject, roles...); err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Forbidden",
			})
			return
		}

		c.Next()
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
