package server

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Principal is the authenticated caller, injected by the auth front as
// headers. Token issuance and validation happen upstream.
type Principal struct {
	ID   string
	Role string
}

func (p Principal) IsAdmin() bool { return p.Role == "admin" }

// PrincipalMiddleware rejects requests without an authenticated principal and
// makes the principal available to handlers.
func PrincipalMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if id == "" {
			c.Error(errUnauthorized)
			c.Abort()
			return
		}

		role := strings.TrimSpace(c.GetHeader("X-User-Role"))
		if role == "" {
			role = "staff"
		}

		c.Set(principalKey, Principal{ID: id, Role: role})
		c.Next()
	}
}

func principalFrom(c *gin.Context) Principal {
	if v, ok := c.Get(principalKey); ok {
		if p, ok := v.(Principal); ok {
			return p
		}
	}
	return Principal{}
}

// RequireAdmin guards catalog and credit-limit mutations.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !principalFrom(c).IsAdmin() {
			c.Error(errForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
