package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/ishuesiah/time-tracker-sevalla/internal/config"
	"github.com/ishuesiah/time-tracker-sevalla/internal/middleware"
)

func authTestConfig(secure bool) *config.Config {
	loc, _ := time.LoadLocation("America/Vancouver")
	return &config.Config{
		Timezone:      loc,
		SessionSecret: "test-secret",
		SecureCookies: secure,
	}
}

func findCookie(t *testing.T, w *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == name {
			return ck
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestAuthBegin_StateCookieIsSecure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(authTestConfig(true))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/auth/google", nil)
	h.Begin(c)

	assert.Equal(t, http.StatusFound, w.Code)
	ck := findCookie(t, w, "tt_oauth_state")
	assert.True(t, ck.Secure)
	assert.True(t, ck.HttpOnly)
	assert.NotEmpty(t, ck.Value)
}

func TestAuthLogout_SessionCookieClearedSecure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(authTestConfig(true))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/logout", nil)
	h.Logout(c)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard/login", w.Header().Get("Location"))
	ck := findCookie(t, w, middleware.SessionCookie)
	assert.True(t, ck.Secure)
	assert.True(t, ck.HttpOnly)
	assert.Empty(t, ck.Value)
}

func TestAuthBegin_InsecureCookiesForLocalDev(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(authTestConfig(false))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/auth/google", nil)
	h.Begin(c)

	ck := findCookie(t, w, "tt_oauth_state")
	assert.False(t, ck.Secure)
}
