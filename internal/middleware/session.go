package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookie names the dashboard session cookie. The session is a signed
// JWT carrying {email, name, is_admin}; there is no server-side session
// state to invalidate.
const SessionCookie = "tt_session"

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// NewSessionToken signs a dashboard session for the given identity.
func NewSessionToken(secret, email, name string, isAdmin bool, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"email":    email,
		"name":     name,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// SessionGuard requires a valid session cookie. HTML routes redirect to the
// login page; JSON routes answer 401. On success the identity is placed in
// the gin context under session_email / session_name / session_is_admin /
// session_role.
func SessionGuard(secret string, redirectToLogin bool) gin.HandlerFunc {
	reject := func(c *gin.Context) {
		if redirectToLogin {
			c.Redirect(http.StatusFound, "/dashboard/login")
			c.Abort()
			return
		}
		response.AbortError(c, http.StatusUnauthorized, "Not logged in")
	}

	return func(c *gin.Context) {
		cookie, err := c.Cookie(SessionCookie)
		if err != nil || cookie == "" {
			reject(c)
			return
		}

		token, err := jwt.Parse(cookie, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			reject(c)
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			reject(c)
			return
		}
		email, _ := claims["email"].(string)
		if email == "" {
			reject(c)
			return
		}
		name, _ := claims["name"].(string)
		isAdmin, _ := claims["is_admin"].(bool)

		role := RoleEmployee
		if isAdmin {
			role = RoleAdmin
		}

		c.Set("session_email", email)
		c.Set("session_name", name)
		c.Set("session_is_admin", isAdmin)
		c.Set("session_role", role)

		c.Next()
	}
}
