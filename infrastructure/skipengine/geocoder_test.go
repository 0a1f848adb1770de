package skipengine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	pkgerrors "mnuda-backend/pkg/errors"
	"mnuda-backend/pkg/observability"
)

func newTestGeocoder(t *testing.T, handler http.HandlerFunc) *Geocoder {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGeocoder(srv.URL, 5*time.Second, observability.NewTracer("test"), zap.NewNop())
}

func TestGeocoder_ReverseGeocode(t *testing.T) {
	geo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Write([]byte(`{"address":{"house_number":"123","road":"Main St","city":"Springfield","state":"IL","postcode":"62704"}}`))
	})

	addr, err := geo.ReverseGeocode(context.Background(), 39.78, -89.65)

	require.NoError(t, err)
	assert.Equal(t, "123 Main St", addr.Street)
	assert.Equal(t, "Springfield", addr.City)
	assert.Equal(t, "IL", addr.State)
	assert.Equal(t, "62704", addr.Postal)
}

func TestGeocoder_ReverseGeocode_TownFallback(t *testing.T) {
	geo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"address":{"road":"Elm St","town":"Shelbyville","state":"IL"}}`))
	})

	addr, err := geo.ReverseGeocode(context.Background(), 39.4, -88.8)

	require.NoError(t, err)
	assert.Equal(t, "Elm St", addr.Street)
	assert.Equal(t, "Shelbyville", addr.City)
}

func TestGeocoder_ReverseGeocode_UpstreamError(t *testing.T) {
	geo := newTestGeocoder(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := geo.ReverseGeocode(context.Background(), 39.78, -89.65)

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
}
