package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnuda-backend/application/commands"
	commandhandlers "mnuda-backend/application/commands/handlers"
	"mnuda-backend/application/ports"
	queryhandlers "mnuda-backend/application/queries/handlers"
	"mnuda-backend/domain/core/valueobjects"
	"mnuda-backend/infrastructure/config"
	"mnuda-backend/infrastructure/di"
	"mnuda-backend/infrastructure/messaging/eventbridge"
	"mnuda-backend/infrastructure/persistence/memory"
)

type stubEngine struct {
	peopleListing json.RawMessage
	personDetail  json.RawMessage
}

func (s *stubEngine) PeopleByAddress(context.Context, valueobjects.Address) (json.RawMessage, error) {
	return s.peopleListing, nil
}
func (s *stubEngine) PeopleByName(context.Context, string) (json.RawMessage, error) {
	return s.peopleListing, nil
}
func (s *stubEngine) PeopleByEmail(context.Context, string) (json.RawMessage, error) {
	return s.peopleListing, nil
}
func (s *stubEngine) PeopleByPhone(context.Context, string) (json.RawMessage, error) {
	return s.peopleListing, nil
}
func (s *stubEngine) PersonDetail(context.Context, string) (json.RawMessage, error) {
	return s.personDetail, nil
}
func (s *stubEngine) PropertyByAddress(context.Context, valueobjects.Address) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

type stubGeocoder struct{}

func (stubGeocoder) ReverseGeocode(context.Context, float64, float64) (valueobjects.Address, error) {
	return valueobjects.NewAddress("123 Main St", "Springfield", "IL", "62704"), nil
}

var _ ports.SkipEngine = (*stubEngine)(nil)
var _ ports.Geocoder = stubGeocoder{}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := zap.NewNop()
	repo := memory.NewSessionRepository(logger)
	publisher := eventbridge.NewNopPublisher()
	engine := &stubEngine{
		peopleListing: json.RawMessage(`{"people":[{"name":"Jane Doe","age":"42","lives_in":"Springfield, IL","apiPersonId":"p-100"}]}`),
		personDetail:  json.RawMessage(`{"person":{"relatives":[{"name":"John Doe"}],"phones":["555-0100"]}}`),
	}
	sessionQueries := queryhandlers.NewSessionQueryHandler(repo, logger)

	container := &di.Container{
		Config:         &config.Config{Environment: "test", PersistenceDriver: "memory"},
		Logger:         logger,
		SessionRepo:    repo,
		SkipEngine:     engine,
		Geocoder:       stubGeocoder{},
		EventBus:       publisher,
		CommandBus:     di.ProvideCommandBus(repo, publisher, logger),
		QueryBus:       di.ProvideQueryBus(sessionQueries),
		CreateSession:  commands.NewCreateSessionHandler(repo, logger),
		AddNode:        commands.NewAddNodeHandler(repo, publisher, logger),
		Bootstrap:      commands.NewBootstrapNodeHandler(repo, stubGeocoder{}, publisher, logger),
		RunSearch:      commands.NewRunSearchHandler(repo, engine, publisher, logger),
		TracePerson:    commands.NewTracePersonHandler(repo, engine, publisher, logger),
		TraceAddress:   commands.NewTraceAddressHandler(repo, engine, publisher, logger),
		ImportSession:  commandhandlers.NewImportSessionHandler(repo, publisher, logger),
		SessionQueries: sessionQueries,
	}

	srv := httptest.NewServer(NewRouter(container).Setup())
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doJSON(t *testing.T, method, url string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestRouter_HealthAndReady(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

// TestRouter_InvestigationFlow drives a whole investigation through the HTTP
// surface: session, input node, search, entity drill-down, delete, export and
// re-import.
func TestRouter_InvestigationFlow(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + "/api/v1"

	// Create a session
	status, env := doJSON(t, http.MethodPost, api+"/sessions", map[string]string{"name": "Flow"})
	require.Equal(t, http.StatusCreated, status)
	var created struct {
		SessionID string `json:"sessionId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotEmpty(t, created.SessionID)
	base := fmt.Sprintf("%s/sessions/%s", api, created.SessionID)

	// Record a name-search input node
	status, env = doJSON(t, http.MethodPost, base+"/nodes", map[string]string{"apiName": "Name Search"})
	require.Equal(t, http.StatusCreated, status)
	var input struct {
		ID           string `json:"mnNodeId"`
		Kind         string `json:"type"`
		Status       string `json:"status"`
		HasCompleted bool   `json:"hasCompleted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &input))
	assert.Equal(t, "start", input.Kind)
	assert.Equal(t, "ready", input.Status)
	assert.False(t, input.HasCompleted)

	// Run the search; a result node is created under the input node
	status, env = doJSON(t, http.MethodPost, base+"/nodes/"+input.ID+"/search",
		map[string]string{"query": "Jane Doe"})
	require.Equal(t, http.StatusCreated, status)
	var result struct {
		ID           string `json:"mnNodeId"`
		Kind         string `json:"type"`
		ParentNodeID string `json:"parentNodeId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "api-result", result.Kind)
	assert.Equal(t, input.ID, result.ParentNodeID)

	// The input node derives completion from its result sibling
	status, env = doJSON(t, http.MethodGet, base+"/nodes/"+input.ID, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &input))
	assert.True(t, input.HasCompleted)
	assert.Equal(t, "completed", input.Status)

	// The result node's entities carry the traceable person
	status, env = doJSON(t, http.MethodGet, base+"/nodes/"+result.ID+"/entities", nil)
	require.Equal(t, http.StatusOK, status)
	var entitiesView struct {
		Entities []struct {
			MnEntityID  string `json:"mnEntityId"`
			Kind        string `json:"type"`
			IsTraceable bool   `json:"isTraceable"`
			Person      *struct {
				Name        string `json:"name"`
				APIPersonID string `json:"apiPersonId"`
			} `json:"person"`
		} `json:"entities"`
		Counts struct {
			Persons int `json:"persons"`
		} `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entitiesView))
	require.Len(t, entitiesView.Entities, 1)
	person := entitiesView.Entities[0]
	require.True(t, person.IsTraceable)
	require.NotNil(t, person.Person)
	assert.Equal(t, 1, entitiesView.Counts.Persons)

	// Drill into the person
	status, env = doJSON(t, http.MethodPost, base+"/trace/person", map[string]string{
		"parentNodeId": result.ID,
		"entityId":     person.MnEntityID,
		"apiPersonId":  person.Person.APIPersonID,
	})
	require.Equal(t, http.StatusCreated, status)
	var detail struct {
		ID           string `json:"mnNodeId"`
		Kind         string `json:"type"`
		ParentNodeID string `json:"parentNodeId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "people-result", detail.Kind)
	assert.Equal(t, result.ID, detail.ParentNodeID)

	// Lineage of the detail node reads nearest parent first
	status, env = doJSON(t, http.MethodGet, base+"/nodes/"+detail.ID+"/lineage", nil)
	require.Equal(t, http.StatusOK, status)
	var lineage []struct {
		ID string `json:"mnNodeId"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &lineage))
	require.Len(t, lineage, 2)
	assert.Equal(t, result.ID, lineage[0].ID)
	assert.Equal(t, input.ID, lineage[1].ID)

	// Delete the detail node
	status, _ = doJSON(t, http.MethodDelete, base+"/nodes/"+detail.ID, nil)
	require.Equal(t, http.StatusOK, status)
	status, _ = doJSON(t, http.MethodGet, base+"/nodes/"+detail.ID, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Export and re-import the session
	status, env = doJSON(t, http.MethodGet, base+"/export", nil)
	require.Equal(t, http.StatusOK, status)
	snapshot := env.Data

	req, err := http.NewRequest(http.MethodPost, api+"/sessions/import", bytes.NewReader(snapshot))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var importEnv envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&importEnv))
	var imported struct {
		SessionID string `json:"sessionId"`
		NodeCount int    `json:"nodeCount"`
	}
	require.NoError(t, json.Unmarshal(importEnv.Data, &imported))
	assert.Equal(t, created.SessionID, imported.SessionID)
	assert.Equal(t, 2, imported.NodeCount)
}

func TestRouter_ValidationErrors(t *testing.T) {
	srv := newTestServer(t)
	api := srv.URL + "/api/v1"

	status, env := doJSON(t, http.MethodPost, api+"/sessions", map[string]string{"name": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION", env.Error.Code)

	status, env = doJSON(t, http.MethodGet, api+"/sessions/nope/nodes", nil)
	assert.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, env.Error)
}
