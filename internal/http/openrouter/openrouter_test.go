package openrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("test-key", "test-model")
	base, err := url.Parse(srv.URL + "/api/v1/")
	require.NoError(t, err)
	c.BaseURL = base
	return c, srv
}

func TestCompleteRequestsVersionedEndpoint(t *testing.T) {
	var gotPath, gotAuth string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"A short summary."}}]}`))
	})

	reply, err := c.Complete(context.Background(), "describe the issue")
	require.NoError(t, err)
	assert.Equal(t, "A short summary.", reply)
	assert.Equal(t, "/api/v1/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestDefaultBaseURLKeepsVersionPrefix(t *testing.T) {
	c := NewClient("k", "m")
	rel, err := url.Parse("chat/completions")
	require.NoError(t, err)
	assert.Equal(t,
		"https://openrouter.ai/api/v1/chat/completions",
		c.BaseURL.ResolveReference(rel).String(),
	)
}

func TestCompleteEmptyContentIsError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  "}}]}`))
	})

	_, err := c.Complete(context.Background(), "prompt")
	assert.Error(t, err)
}
