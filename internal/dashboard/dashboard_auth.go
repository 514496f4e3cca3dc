package dashboard

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ishuesiah/time-tracker-sevalla/internal/config"
	"github.com/ishuesiah/time-tracker-sevalla/internal/middleware"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookie   = "tt_oauth_state"
	sessionTTL    = 24 * time.Hour
	userinfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	stateLifetime = 600 // seconds
)

// AuthHandler runs the Google login flow and issues the session cookie.
type AuthHandler struct {
	cfg    *config.Config
	oauth  *oauth2.Config
	logger *zap.Logger
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
		logger: zap.L().Named("dashboard.auth"),
	}
}

// LoginPage shows the sign-in link.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, loginPageHTML)
}

// Begin sends the browser to Google with a one-time state nonce.
func (h *AuthHandler) Begin(c *gin.Context) {
	state := uuid.New().String()
	c.SetCookie(stateCookie, state, stateLifetime, "/", "", h.cfg.SecureCookies, true)
	c.Redirect(http.StatusFound, h.oauth.AuthCodeURL(state))
}

// Callback exchanges the code, reads the Google profile, and issues the
// session cookie. Admin status comes from the configured email allowlist.
func (h *AuthHandler) Callback(c *gin.Context) {
	state, err := c.Cookie(stateCookie)
	if err != nil || state == "" || c.Query("state") != state {
		response.Error(c, http.StatusForbidden, "OAuth state mismatch")
		return
	}
	c.SetCookie(stateCookie, "", -1, "/", "", h.cfg.SecureCookies, true)

	code := c.Query("code")
	if code == "" {
		response.Error(c, http.StatusBadRequest, "Missing authorization code")
		return
	}

	tok, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		h.logger.Warn("oauth exchange failed", zap.Error(err))
		response.Error(c, http.StatusUnauthorized, "Login failed")
		return
	}

	resp, err := h.oauth.Client(c.Request.Context(), tok).Get(userinfoURL)
	if err != nil {
		h.logger.Warn("userinfo fetch failed", zap.Error(err))
		response.Error(c, http.StatusUnauthorized, "Login failed")
		return
	}
	defer resp.Body.Close()

	var profile struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil || profile.Email == "" {
		response.Error(c, http.StatusUnauthorized, "Login failed")
		return
	}

	isAdmin := h.cfg.IsAdminEmail(profile.Email)
	session, err := middleware.NewSessionToken(h.cfg.SessionSecret, profile.Email, profile.Name, isAdmin, sessionTTL)
	if err != nil {
		h.logger.Error("session token signing failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "Login failed")
		return
	}

	c.SetCookie(middleware.SessionCookie, session, int(sessionTTL.Seconds()), "/", "", h.cfg.SecureCookies, true)
	h.logger.Info("dashboard login", zap.String("email", profile.Email), zap.Bool("is_admin", isAdmin))
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cfg.SecureCookies, true)
	c.Redirect(http.StatusFound, "/dashboard/login")
}
