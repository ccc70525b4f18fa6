// Package security holds the gin bearer middleware. Every /api route
// runs behind it; the caller identity used by handlers always comes
// from the verified token, never from the request body.
package security

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"skillswap/logger"
	"skillswap/tools/errs"
)

const ctxUserKey = "userID"

// Identity is the credential resolver the middleware delegates to.
type Identity interface {
	Resolve(ctx context.Context, credential string) (uuid.UUID, error)
}

// Auth rejects requests without a valid bearer token and stores the
// resolved user id on the gin context.
func Auth(identity Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred := bearerToken(c)
		if cred == "" {
			abortUnauthorized(c)
			return
		}
		user, err := identity.Resolve(c.Request.Context(), cred)
		if err != nil {
			logger.Infof("[auth] rejected %s %s: %v", c.Request.Method, c.FullPath(), err)
			abortUnauthorized(c)
			return
		}
		c.Set(ctxUserKey, user)
		c.Next()
	}
}

// CurrentUser reads the id the middleware stored. Handlers behind
// Auth may assume it is present.
func CurrentUser(c *gin.Context) uuid.UUID {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return uuid.Nil
	}
	id, _ := v.(uuid.UUID)
	return id
}

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errs.CodeAuth,
		"msg":  "authentication failed",
	})
}
