package relationships

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
)

// nodeAt rebuilds a node with a controlled timestamp so ordering assertions
// are deterministic
func nodeAt(t *testing.T, kind entities.NodeKind, apiName string, ts time.Time) *entities.Node {
	t.Helper()
	node, err := entities.ReconstructNode(entities.NodeSnapshot{
		MnNodeID:  valueobjects.NewNodeIdentifier().String(),
		Type:      kind,
		APIName:   apiName,
		Status:    entities.StatusReady,
		Timestamp: ts,
	})
	require.NoError(t, err)
	return node
}

func TestDisplayOrder(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	pinned1 := nodeAt(t, entities.NodeKindUserFound, entities.HistoryAPIName, base)
	first := nodeAt(t, entities.NodeKindStart, "Name Search", base.Add(1*time.Minute))
	second := nodeAt(t, entities.NodeKindStart, "Email Search", base.Add(2*time.Minute))
	pinned2 := nodeAt(t, entities.NodeKindUserFound, entities.HistoryAPIName, base.Add(3*time.Minute))
	third := nodeAt(t, entities.NodeKindStart, "Phone Search", base.Add(4*time.Minute))

	store := []*entities.Node{pinned1, first, second, pinned2, third}

	ordered := DisplayOrder(store)

	require.Len(t, ordered, 5)
	// Pinned nodes first, in creation order
	assert.Same(t, pinned1, ordered[0])
	assert.Same(t, pinned2, ordered[1])
	// Then ordinary nodes newest-first
	assert.Same(t, third, ordered[2])
	assert.Same(t, second, ordered[3])
	assert.Same(t, first, ordered[4])
}

func TestDisplayOrder_HistoryAPINamePins(t *testing.T) {
	// A start node carrying the history API name pins even though its kind is
	// not userFound
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	history := nodeAt(t, entities.NodeKindStart, entities.HistoryAPIName, base)
	ordinary := nodeAt(t, entities.NodeKindStart, "Name Search", base.Add(time.Minute))

	ordered := DisplayOrder([]*entities.Node{ordinary, history})

	assert.Same(t, history, ordered[0])
	assert.Same(t, ordinary, ordered[1])
}

func TestDisplayOrder_DoesNotModifyInput(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first := nodeAt(t, entities.NodeKindStart, "Name Search", base)
	second := nodeAt(t, entities.NodeKindStart, "Email Search", base.Add(time.Minute))
	store := []*entities.Node{first, second}

	DisplayOrder(store)

	assert.Same(t, first, store[0])
	assert.Same(t, second, store[1])
}

func TestDisplayOrder_Empty(t *testing.T) {
	assert.Empty(t, DisplayOrder(nil))
}
