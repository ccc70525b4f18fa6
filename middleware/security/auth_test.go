package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/tools/errs"
)

type stubIdentity struct {
	valid map[string]uuid.UUID
}

func (s *stubIdentity) Resolve(_ context.Context, credential string) (uuid.UUID, error) {
	if id, ok := s.valid[credential]; ok {
		return id, nil
	}
	return uuid.Nil, errs.ErrAuth
}

func newAuthRouter(id *stubIdentity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Auth(id), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": CurrentUser(c).String()})
	})
	return r
}

func TestAuthPassesValidBearer(t *testing.T) {
	user := uuid.New()
	r := newAuthRouter(&stubIdentity{valid: map[string]uuid.UUID{"good": user}})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.String())
}

func TestAuthRejectsMissingAndBadTokens(t *testing.T) {
	r := newAuthRouter(&stubIdentity{valid: map[string]uuid.UUID{}})

	for _, header := range []string{"", "Bearer bad", "Basic abc", "good"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}
