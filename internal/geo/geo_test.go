package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","lat":42.3601,"lon":-71.0589}`))
	}))
	defer srv.Close()

	loc, err := NewIPLocatorWithEndpoint(srv.URL, nil).Locate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 42.3601, loc.Latitude, 1e-9)
	assert.InDelta(t, -71.0589, loc.Longitude, 1e-9)
}

func TestLocateFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	_, err := NewIPLocatorWithEndpoint(srv.URL, nil).Locate(context.Background())
	assert.Error(t, err)
}

func TestLocateServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewIPLocatorWithEndpoint(srv.URL, nil).Locate(context.Background())
	assert.Error(t, err)
}

func TestLocateUnreachable(t *testing.T) {
	// Closed server: connection refused.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := NewIPLocatorWithEndpoint(srv.URL, nil).Locate(context.Background())
	assert.Error(t, err)
}
