package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai_authoring_backend/internal/session"
	"ai_authoring_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionRouter(tokens *session.TokenManager, store session.Store) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(SessionMiddleware(tokens, store))
	r.GET("/whoami", func(c *gin.Context) {
		sess := CurrentSession(c)
		c.String(http.StatusOK, sess.ID()+"|"+sess.UserCode(c.Request.Context()))
	})
	r.GET("/private", RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func TestSessionMiddlewareIssuesTokenWhenMissing(t *testing.T) {
	tokens := session.NewTokenManager("test-secret", time.Hour)
	r := newSessionRouter(tokens, session.NewMemoryStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	token := w.Header().Get(util.SessionHeader)
	require.NotEmpty(t, token)

	sid, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, sid+"|"+session.DefaultUserCode, w.Body.String())
}

func TestSessionMiddlewareReusesValidToken(t *testing.T) {
	tokens := session.NewTokenManager("test-secret", time.Hour)
	store := session.NewMemoryStore()
	r := newSessionRouter(tokens, store)

	token, err := tokens.Sign("sid-1")
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "sid-1", session.KeyUserCode, "Usr42"))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(util.SessionHeader, token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "sid-1|Usr42", w.Body.String())
	assert.Equal(t, token, w.Header().Get(util.SessionHeader))
}

func TestSessionMiddlewareReplacesForeignToken(t *testing.T) {
	tokens := session.NewTokenManager("test-secret", time.Hour)
	foreign, err := session.NewTokenManager("other-secret", time.Hour).Sign("sid-x")
	require.NoError(t, err)

	r := newSessionRouter(tokens, session.NewMemoryStore())
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(util.SessionHeader, foreign)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	fresh := w.Header().Get(util.SessionHeader)
	assert.NotEqual(t, foreign, fresh)
	sid, err := tokens.Parse(fresh)
	require.NoError(t, err)
	assert.NotEqual(t, "sid-x", sid)
}

func TestRequireLogin(t *testing.T) {
	tokens := session.NewTokenManager("test-secret", time.Hour)
	r := newSessionRouter(tokens, session.NewMemoryStore())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
