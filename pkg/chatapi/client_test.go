package chatapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplySuccess(t *testing.T) {
	var gotPath, gotContentType, gotAPIKey string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotAPIKey = r.Header.Get("x-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"reply":"hi there"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/chat-api/message", "test-key")
	reply, err := c.Reply(context.Background(), "+15551230000", "hello")

	assert.NoError(t, err)
	assert.Equal(t, "hi there", reply)
	assert.Equal(t, "/chat-api/message", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "test-key", gotAPIKey)
	assert.Equal(t, "+15551230000", gotBody["user_id"])
	assert.Equal(t, "hello", gotBody["message"])
}

func TestReplyNoAPIKeyHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := r.Header["X-Api-Key"]; ok {
			t.Error("x-api-key header sent despite empty key")
		}
		w.Write([]byte(`{"reply":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Reply(context.Background(), "user", "msg")
	assert.NoError(t, err)
}

func TestReplyUpstreamStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, err := c.Reply(context.Background(), "user", "msg")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestReplyTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "")
	_, err := c.Reply(context.Background(), "user", "msg")
	assert.Error(t, err)
}

func TestReplyMissingReplyField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	reply, err := c.Reply(context.Background(), "user", "msg")
	assert.NoError(t, err)
	assert.Equal(t, "", reply)
}

func TestReplyMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	reply, err := c.Reply(context.Background(), "user", "msg")
	assert.NoError(t, err)
	assert.Equal(t, "", reply)
}
