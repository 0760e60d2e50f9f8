package restkit_test

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

	"github.com/restkit-io/restkit/pkg/rest"
	"github.com/restkit-io/restkit/pkg/restkit"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	_, err := restkit.New(nil)
	require.ErrorIs(t, err, restkit.ErrConfigRequired)

	_, err = restkit.New(&restkit.Config{})
	require.ErrorIs(t, err, rest.ErrSiteRequired)
}

func TestNewNormalizesSiteURL(t *testing.T) {
	t.Parallel()

	site, err := restkit.New(&restkit.Config{Site: "api.example.com/v2/"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", site.BaseURL())
	assert.Equal(t, "/v2", site.Prefix())
}

func TestEndToEndFindAndSave(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "GET /people/1.json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":1,"name":"Tyler Durden","address":{"city":"Bradford"}}`))
		case "PUT /people/1.json":
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"name":"Jack","address":{"city":"Bradford"}}`, string(body))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	site, err := restkit.New(&restkit.Config{Site: server.URL})
	require.NoError(t, err)

	people := site.Type("person")

	person, err := people.Find(context.Background(), "1", nil)
	require.NoError(t, err)

	address, ok := person.GetResource("address")
	require.True(t, ok)

	city, _ := address.GetString("city")
	assert.Equal(t, "Bradford", city)

	person.SetAttr("name", "Jack")
	require.NoError(t, person.Save(context.Background()))
}

func TestEndToEndCreateAndDelete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "POST /people.json":
			w.Header().Set("Location", "/people/2.json")
			w.WriteHeader(http.StatusCreated)
		case "DELETE /people/2.json":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	site, err := restkit.New(&restkit.Config{Site: server.URL})
	require.NoError(t, err)

	people := site.Type("person")

	person, err := people.Create(context.Background(), map[string]interface{}{"name": "Marla"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "2", person.ID())
	assert.True(t, person.Persisted())

	require.NoError(t, person.Delete(context.Background()))
	assert.Equal(t, rest.StateDeleted, person.State())
}

func TestEndToEndBasicAuthFromConfig(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "admin" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)

			return
		}

		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	site, err := restkit.New(&restkit.Config{
		Site:     server.URL,
		Username: "admin",
		Password: "secret",
	})
	require.NoError(t, err)

	_, err = site.Type("person").Find(context.Background(), "1", nil)
	require.NoError(t, err)
}

func TestHTTPTimeoutHonoredWithRetries(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	site, err := restkit.New(&restkit.Config{
		Site:        server.URL,
		HTTPTimeout: 50 * time.Millisecond,
		RetryMax:    1,
	})
	require.NoError(t, err)

	start := time.Now()

	_, err = site.Type("person").Find(context.Background(), "1", nil)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)

	var transportErr *rest.TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestEndToEndStaticHeaders(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sekrit", r.Header.Get("X-Api-Key"))
		_, _ = w.Write([]byte(`{"id":1}`))
	}))
	defer server.Close()

	site, err := restkit.New(&restkit.Config{
		Site:    server.URL,
		Headers: map[string]string{"X-Api-Key": "sekrit"},
	})
	require.NoError(t, err)

	_, err = site.Type("person").Find(context.Background(), "1", nil)
	require.NoError(t, err)
}
