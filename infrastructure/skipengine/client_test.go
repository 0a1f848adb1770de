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

	"mnuda-backend/domain/core/valueobjects"
	pkgerrors "mnuda-backend/pkg/errors"
	"mnuda-backend/pkg/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", 5*time.Second, observability.NewTracer("test"), observability.NewMetrics("test", nil), zap.NewNop())
}

func TestClient_PeopleByName(t *testing.T) {
	var gotPath, gotKey, gotName string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		gotName = r.URL.Query().Get("name")
		w.Write([]byte(`{"people":[{"name":"Jane Doe"}]}`))
	})

	body, err := client.PeopleByName(context.Background(), "Jane Doe")

	require.NoError(t, err)
	assert.Equal(t, "/people/name", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "Jane Doe", gotName)
	assert.JSONEq(t, `{"people":[{"name":"Jane Doe"}]}`, string(body))
}

func TestClient_PeopleByAddress_QueryShape(t *testing.T) {
	var street, cityStateZip string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		street = r.URL.Query().Get("street")
		cityStateZip = r.URL.Query().Get("citystatezip")
		w.Write([]byte(`{}`))
	})
	addr := valueobjects.NewAddress("123 Main St", "Springfield", "IL", "62704")

	_, err := client.PeopleByAddress(context.Background(), addr)

	require.NoError(t, err)
	assert.Equal(t, "123 Main St", street)
	assert.Equal(t, "Springfield IL 62704", cityStateZip)
}

func TestClient_PersonDetail(t *testing.T) {
	var personID string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		personID = r.URL.Query().Get("person_id")
		w.Write([]byte(`{"person":{}}`))
	})

	_, err := client.PersonDetail(context.Background(), "p-1")

	require.NoError(t, err)
	assert.Equal(t, "p-1", personID)
}

func TestClient_ThrottleMapsToRateLimit(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.PeopleByPhone(context.Background(), "555-0100")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsRateLimit(err))
}

func TestClient_UpstreamErrorMapsToExternal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.PeopleByEmail(context.Background(), "jane@example.com")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
	assert.False(t, pkgerrors.IsRateLimit(err))
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "", 200*time.Millisecond, observability.NewTracer("test"), observability.NewMetrics("test", nil), zap.NewNop())

	_, err := client.PeopleByName(context.Background(), "Jane Doe")

	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeNetwork))
}
