package sessions

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/config"
)

func newTestRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(m.LoadSave())
	router.GET("/id", func(c *gin.Context) {
		c.String(http.StatusOK, m.ListID(c.Request.Context()))
	})
	return router
}

func TestNewManager(t *testing.T) {
	m := NewManager(config.Sessions{Lifetime: time.Hour, SecureCookies: true})

	assert.Equal(t, time.Hour, m.Lifetime)
	assert.Equal(t, 30*time.Minute, m.IdleTimeout)
	assert.True(t, m.Cookie.Secure)
	assert.True(t, m.Cookie.HttpOnly)
	assert.Equal(t, "bookfinder_session", m.Cookie.Name)
}

func TestNewManager_DefaultLifetime(t *testing.T) {
	m := NewManager(config.Sessions{})
	assert.Equal(t, 24*time.Hour, m.Lifetime)
}

func TestListIDIsStableWithinSession(t *testing.T) {
	m := NewManager(config.Sessions{Lifetime: time.Hour})
	router := newTestRouter(m)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	first := w.Body.String()
	require.NotEmpty(t, first)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "session cookie should be set")

	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/id", nil)
	for _, cookie := range cookies {
		req2.AddCookie(cookie)
	}
	router.ServeHTTP(w2, req2)
	assert.Equal(t, first, w2.Body.String())

	// A request without the cookie gets a new list
	w3 := httptest.NewRecorder()
	router.ServeHTTP(w3, httptest.NewRequest(http.MethodGet, "/id", nil))
	assert.NotEqual(t, first, w3.Body.String())
}
