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

func TestTraceAddressHandler_Handle_Success(t *testing.T) {
	ctx := context.Background()
	session, parent := seedSessionWithInput(t, extraction.APINamePersonDetail)
	repo := newFakeSessionRepo(session)
	listing := json.RawMessage(`{"people":[{"name":"Jane Doe"}]}`)
	engine := &fakeSkipEngine{response: listing}
	bus := &fakeEventBus{}
	handler := NewTraceAddressHandler(repo, engine, bus, zap.NewNop())

	entityID := valueobjects.NewEntityIdentifier()
	node, err := handler.Handle(ctx, TraceAddressCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: parent.ID().String(),
		EntityID:     entityID.String(),
		Street:       "123 Main St",
		City:         "Springfield",
		State:        "IL",
		Postal:       "62704",
	})

	require.NoError(t, err)
	require.NotNil(t, node)
	assert.Equal(t, entities.NodeKindAPIResult, node.Kind())
	assert.Equal(t, extraction.APINameAddressSearch, node.APIName())
	assert.Equal(t, listing, node.Response())
	assert.True(t, node.ParentNodeID().Equals(parent.ID()))
	assert.True(t, node.ClickedEntityID().Equals(entityID))
	// The triggering address is snapshotted on the node at trace time
	assert.JSONEq(t,
		`{"street":"123 Main St","city":"Springfield","state":"IL","postal":"62704"}`,
		string(node.ClickedEntityData()))
	assert.Equal(t, "123 Main St", node.Address().Street)
	assert.Equal(t, []string{"PeopleByAddress"}, engine.calls)
	assert.NotEmpty(t, bus.published)
}

func TestTraceAddressHandler_Handle_FailurePropagates(t *testing.T) {
	ctx := context.Background()
	session, parent := seedSessionWithInput(t, extraction.APINamePersonDetail)
	repo := newFakeSessionRepo(session)
	engine := &fakeSkipEngine{err: pkgerrors.NewRateLimitError("skip engine")}
	handler := NewTraceAddressHandler(repo, engine, &fakeEventBus{}, zap.NewNop())

	node, err := handler.Handle(ctx, TraceAddressCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: parent.ID().String(),
		EntityID:     valueobjects.NewEntityIdentifier().String(),
		Street:       "123 Main St",
		City:         "Springfield",
		State:        "IL",
	})

	require.Error(t, err)
	assert.Nil(t, node)
	assert.Equal(t, 1, session.Len())
}

func TestTraceAddressHandler_Handle_LateResponseDiscarded(t *testing.T) {
	ctx := context.Background()
	session, parent := seedSessionWithInput(t, extraction.APINamePersonDetail)
	repo := newFakeSessionRepo(session)
	engine := &fakeSkipEngine{
		onPeopleByAddress: func(context.Context, valueobjects.Address) (json.RawMessage, error) {
			require.NoError(t, session.DeleteNode(parent.ID()))
			return json.RawMessage(`{"people":[]}`), nil
		},
	}
	handler := NewTraceAddressHandler(repo, engine, &fakeEventBus{}, zap.NewNop())

	node, err := handler.Handle(ctx, TraceAddressCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: parent.ID().String(),
		EntityID:     valueobjects.NewEntityIdentifier().String(),
		Street:       "123 Main St",
		City:         "Springfield",
		State:        "IL",
	})

	require.NoError(t, err)
	assert.Nil(t, node)
	assert.Equal(t, 0, session.Len())
}

func TestTraceAddressHandler_Handle_UnsearchableAddressRejected(t *testing.T) {
	ctx := context.Background()
	session, parent := seedSessionWithInput(t, extraction.APINamePersonDetail)
	repo := newFakeSessionRepo(session)
	engine := &fakeSkipEngine{}
	handler := NewTraceAddressHandler(repo, engine, &fakeEventBus{}, zap.NewNop())

	_, err := handler.Handle(ctx, TraceAddressCommand{
		SessionID:    session.ID().String(),
		ParentNodeID: parent.ID().String(),
		EntityID:     valueobjects.NewEntityIdentifier().String(),
		Street:       "   ",
		City:         "Springfield",
		State:        "IL",
	})

	require.Error(t, err)
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, engine.calls)
}
