package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSend_PostsText(t *testing.T) {
	var got struct {
		Text string `json:"text"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL)
	ok := n.Send(context.Background(), "🟢 Jane Doe clocked in at 9:05 AM (remote)")

	assert.True(t, ok)
	assert.Equal(t, "🟢 Jane Doe clocked in at 9:05 AM (remote)", got.Text)
}

func TestSend_ServerErrorReturnsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no_service", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL)
	assert.False(t, n.Send(context.Background(), "hello"))
}

func TestSend_NoURLReturnsFalse(t *testing.T) {
	n := NewSlackNotifier("")
	assert.False(t, n.Send(context.Background(), "hello"))
}
