package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anyulbade/pharmacy-payments/internal/auth"
)

const identityKey = "identity"

type TokenParser interface {
	Parse(raw string) (auth.Identity, error)
}

// Auth requires a bearer token and stores the identity it carries on the
// context. Requests without a valid token stop here with 401.
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "missing bearer token"})
			return
		}

		id, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			status, resp := MapError(err)
			c.AbortWithStatusJSON(status, resp)
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

func IdentityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// TenantID is the tenant every query of the request is scoped to. Only valid
// behind Auth.
func TenantID(c *gin.Context) uuid.UUID {
	id, _ := IdentityFrom(c)
	return id.TenantID
}

// ActorID is the user recorded on mutations.
func ActorID(c *gin.Context) uuid.UUID {
	id, _ := IdentityFrom(c)
	return id.UserID
}
