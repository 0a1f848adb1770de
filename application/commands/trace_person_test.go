package commands

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
	"mnuda-backend/domain/extraction"
	pkgerrors "mnuda-backend/pkg/errors"
)

func TestTracePersonHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	session, parent := seedSessionWithInput(t, extraction.APINameNameSearch)
	repo := newFakeSessionRepo(session)
	detail := json.RawMessage(`{"phones":["555-0100"]}`)
	engine := &fakeSkipEngine{response: detail}
	bus := &fakeEventBus{}
	handler := NewTracePersonHandler(repo, engine, bus, zap.NewNop())

	entityID := valueobjects.NewEntityIdentifier()
	personData := json.RawMessage(`{"name":"Jane Doe","apiPersonId":"p-1"}`)

	node, err := handler.Handle(ctx, TracePersonCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: parent.ID().String(),
		EntityID:     entityID.String(),
		APIPersonID:  "p-1",
		PersonData:   personData,
	})

	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, entities.NodeKindPeopleResult, node.Kind())
	assert.Equal(t, "p-1", node.PersonID())
	assert.Equal(t, detail, node.Response())
	assert.True(t, node.ParentNodeID().Equals(parent.ID()))
	assert.True(t, node.ClickedEntityID().Equals(entityID))
	assert.Equal(t, personData, node.ClickedEntityData())
	assert.NotEmpty(t, bus.published)
}

func TestTracePersonHandler_Handle_RateLimitAddsNothing(t *testing.T) {
	ctx := context.Background()
	session, parent := seedSessionWithInput(t, extraction.APINameNameSearch)
	repo := newFakeSessionRepo(session)
	engine := &fakeSkipEngine{err: pkgerrors.NewRateLimitError("skip engine")}
	handler := NewTracePersonHandler(repo, engine, &fakeEventBus{}, zap.NewNop())

	node, err := handler.Handle(ctx, TracePersonCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: parent.ID().String(),
		EntityID:     valueobjects.NewEntityIdentifier().String(),
		APIPersonID:  "p-1",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsRateLimit(err))
	assert.Nil(t, node)
	assert.Equal(t, 1, session.Len(), "throttled trace must not add a node")
}

func TestTracePersonHandler_Handle_FailureRecordsPlaceholder(t *testing.T) {
	ctx := context.Background()
	session, parent := seedSessionWithInput(t, extraction.APINameNameSearch)
	repo := newFakeSessionRepo(session)
	engine := &fakeSkipEngine{err: pkgerrors.NewExternalError("skip engine", assert.AnError)}
	handler := NewTracePersonHandler(repo, engine, &fakeEventBus{}, zap.NewNop())

	personData := json.RawMessage(`{"name":"Jane Doe"}`)
	node, err := handler.Handle(ctx, TracePersonCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: parent.ID().String(),
		EntityID:     valueobjects.NewEntityIdentifier().String(),
		APIPersonID:  "p-1",
		PersonData:   personData,
	})

	// A non-throttle failure still records the attempted trace
	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Empty(t, node.Response())
	assert.Equal(t, "p-1", node.PersonID())
	assert.Equal(t, personData, node.PersonData())
	assert.Equal(t, 2, session.Len())
}

func TestTracePersonHandler_Handle_LateResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	session, parent := seedSessionWithInput(t, extraction.APINameNameSearch)
	repo := newFakeSessionRepo(session)
	// The parent disappears while the lookup is in flight
	engine := &fakeSkipEngine{
		onPersonDetail: func(context.Context, string) (json.RawMessage, error) {
			require.NoError(t, session.DeleteNode(parent.ID()))
			return json.RawMessage(`{"phones":["555-0100"]}`), nil
		},
	}
	handler := NewTracePersonHandler(repo, engine, &fakeEventBus{}, zap.NewNop())

	node, err := handler.Handle(ctx, TracePersonCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: parent.ID().String(),
		EntityID:     valueobjects.NewEntityIdentifier().String(),
		APIPersonID:  "p-1",
	})

	require.NoError(t, err)
	assert.Nil(t, node, "late response must be discarded silently")
	assert.Equal(t, 0, session.Len())
}

func TestTracePersonHandler_Handle_ParentNotFound(t *testing.T) {
	ctx := context.Background()
	session, _ := seedSessionWithInput(t, extraction.APINameNameSearch)
	repo := newFakeSessionRepo(session)
	engine := &fakeSkipEngine{}
	handler := NewTracePersonHandler(repo, engine, &fakeEventBus{}, zap.NewNop())

	_, err := handler.Handle(ctx, TracePersonCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: valueobjects.NewNodeIdentifier().String(),
		EntityID:     valueobjects.NewEntityIdentifier().String(),
		APIPersonID:  "p-1",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Empty(t, engine.calls, "no upstream call for a missing parent")
}

func TestTracePersonHandler_Handle_InvalidEntityID(t *testing.T) {
	ctx := context.Background()
	session, parent := seedSessionWithInput(t, extraction.APINameNameSearch)
	repo := newFakeSessionRepo(session)
	handler := NewTracePersonHandler(repo, &fakeSkipEngine{}, &fakeEventBus{}, zap.NewNop())

	_, err := handler.Handle(ctx, TracePersonCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: parent.ID().String(),
		EntityID:     "not-an-identifier",
		APIPersonID:  "p-1",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
}
