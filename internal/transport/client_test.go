package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restkit-io/restkit/internal/transport"
	"github.com/restkit-io/restkit/pkg/rest"
)

func TestClientDo(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/people/1.json", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":1,"name":"Tyler Durden"}`))
	}))
	defer server.Close()

	client := transport.NewClient(server.URL)

	resp, err := client.Do(context.Background(), &rest.Request{
		Method:  http.MethodGet,
		Path:    "/people/1.json",
		Headers: map[string]string{"Accept": "application/json"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.JSONEq(t, `{"id":1,"name":"Tyler Durden"}`, string(resp.Body))
	assert.Equal(t, "application/json", resp.Header("content-type"))
}

func TestClientDoSendsBodyAndAuth(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)

		body, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.JSONEq(t, `{"name":"Marla"}`, string(body))

		w.Header().Set("Location", "/people/2.json")
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := transport.NewClient(server.URL,
		transport.WithBasicAuth("user", "secret"))

	resp, err := client.Do(context.Background(), &rest.Request{
		Method: http.MethodPost,
		Path:   "/people.json",
		Body:   []byte(`{"name":"Marla"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Status)
	assert.Equal(t, "/people/2.json", resp.Header("Location"))
}

func TestClientDoSetsUserAgent(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent/2.0", r.Header.Get("User-Agent"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := transport.NewClient(server.URL,
		transport.WithUserAgent("custom-agent/2.0"))

	_, err := client.Do(context.Background(), &rest.Request{
		Method: http.MethodGet,
		Path:   "/ping",
	})
	require.NoError(t, err)
}

func TestClientDoDoesNotFollowRedirects(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/people/1.json", http.StatusMovedPermanently)
	}))
	defer server.Close()

	client := transport.NewClient(server.URL)

	resp, err := client.Do(context.Background(), &rest.Request{
		Method: http.MethodGet,
		Path:   "/people/old.json",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusMovedPermanently, resp.Status)
}

func TestClientDoTransportError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	server.Close()

	client := transport.NewClient(server.URL)

	_, err := client.Do(context.Background(), &rest.Request{
		Method: http.MethodGet,
		Path:   "/people.json",
	})
	require.Error(t, err)

	var transportErr *rest.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestClientTimeoutAppliesWithRetriesEnabled(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	// the retry option replaces the underlying client; the timeout must
	// survive regardless of option order
	client := transport.NewClient(server.URL,
		transport.WithTimeout(50*time.Millisecond),
		transport.WithRetryConfig(1, time.Millisecond, 2*time.Millisecond))

	start := time.Now()

	_, err := client.Do(context.Background(), &rest.Request{
		Method: http.MethodGet,
		Path:   "/people/1.json",
	})
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var transportErr *rest.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestClientDoContextCancellation(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := transport.NewClient(server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Do(ctx, &rest.Request{
		Method: http.MethodGet,
		Path:   "/people.json",
	})
	require.Error(t, err)

	var transportErr *rest.TransportError
	assert.True(t, errors.As(err, &transportErr))
}
