package devtools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func serveTargets(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/json/list", r.URL.Path)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	require.Equal(t, DefaultBaseURL, NewClient(" ").baseURL)
	require.Equal(t, "http://127.0.0.1:9333", NewClient("http://127.0.0.1:9333/").baseURL)
}

func TestActiveTabURL_FirstPageTarget(t *testing.T) {
	srv := serveTargets(t, http.StatusOK, `[
		{"id":"sw","type":"service_worker","url":"chrome-extension://abc/background.js"},
		{"id":"1","type":"page","url":"https://www.youtube.com/watch?v=abc123"},
		{"id":"2","type":"page","url":"https://example.com/"}
	]`)

	url, err := NewClient(srv.URL).ActiveTabURL(context.Background())
	require.NoError(t, err)
	require.Equal(t, "https://www.youtube.com/watch?v=abc123", url)
}

func TestActiveTabURL_NoPages(t *testing.T) {
	srv := serveTargets(t, http.StatusOK, `[{"id":"sw","type":"service_worker","url":"x"}]`)

	url, err := NewClient(srv.URL).ActiveTabURL(context.Background())
	require.NoError(t, err)
	require.Empty(t, url)
}

func TestActiveTabURL_Errors(t *testing.T) {
	srv := serveTargets(t, http.StatusInternalServerError, "nope")
	_, err := NewClient(srv.URL).ActiveTabURL(context.Background())
	require.ErrorContains(t, err, "unexpected status 500")

	srv = serveTargets(t, http.StatusOK, "not-json")
	_, err = NewClient(srv.URL).ActiveTabURL(context.Background())
	require.ErrorContains(t, err, "decode targets")
}
