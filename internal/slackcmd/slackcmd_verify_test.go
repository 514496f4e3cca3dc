package slackcmd

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newVerifyRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/slack/clockin", VerifySignature(secret), func(c *gin.Context) {
		c.String(http.StatusOK, "handled")
	})
	return r
}

func signSlackRequest(req *http.Request, secret, body string) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", ts, body)
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))
}

func TestVerifySignature_Valid(t *testing.T) {
	const secret = "8f742231b10e8888abcd99yyyzzz85a5"
	r := newVerifyRouter(secret)

	body := "command=%2Fclockin&user_id=U123"
	req := httptest.NewRequest(http.MethodPost, "/slack/clockin", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	signSlackRequest(req, secret, body)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	r := newVerifyRouter("correct-secret")

	body := "command=%2Fclockin&user_id=U123"
	req := httptest.NewRequest(http.MethodPost, "/slack/clockin", strings.NewReader(body))
	signSlackRequest(req, "attacker-secret", body)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Invalid signature"}`, w.Body.String())
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	const secret = "correct-secret"
	r := newVerifyRouter(secret)

	body := "command=%2Fclockin&user_id=U123"
	ts := strconv.FormatInt(time.Now().Add(-10*time.Minute).Unix(), 10)
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "v0:%s:%s", ts, body)

	req := httptest.NewRequest(http.MethodPost, "/slack/clockin", strings.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", ts)
	req.Header.Set("X-Slack-Signature", "v0="+hex.EncodeToString(mac.Sum(nil)))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestVerifySignature_BypassWithoutSecret(t *testing.T) {
	r := newVerifyRouter("")

	req := httptest.NewRequest(http.MethodPost, "/slack/clockin",
		strings.NewReader("command=%2Fclockin&user_id=U123"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestVerifySignature_BypassWithoutHeaders(t *testing.T) {
	r := newVerifyRouter("configured-secret")

	req := httptest.NewRequest(http.MethodPost, "/slack/clockin",
		strings.NewReader("command=%2Fclockin&user_id=U123"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
