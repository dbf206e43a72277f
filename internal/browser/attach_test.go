package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartProfileReturnsPort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/profiles/start/abc-123", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "debug_port": 9222}`))
	}))
	defer srv.Close()

	c := NewControlClient(srv.URL)
	port, err := c.StartProfile(context.Background(), "abc-123")
	require.NoError(t, err)
	assert.Equal(t, 9222, port)
}

func TestStartProfileServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewControlClient(srv.URL)
	port, err := c.StartProfile(context.Background(), "abc-123")
	require.Error(t, err)
	assert.Equal(t, 0, port)
	assert.Contains(t, err.Error(), "status 500")
}

func TestStartProfileMissingPort(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": false, "message": "profile not found"}`))
	}))
	defer srv.Close()

	c := NewControlClient(srv.URL)
	_, err := c.StartProfile(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no debug port")
}

func TestStartProfileUnreachable(t *testing.T) {
	c := NewControlClient("http://127.0.0.1:1")
	_, err := c.StartProfile(context.Background(), "abc")
	require.Error(t, err)
}
