package relationships

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mnuda-backend/domain/core/entities"
	"mnuda-backend/domain/core/valueobjects"
)

func buildChain(t *testing.T) (root, middle, leaf *entities.Node) {
	t.Helper()
	root = entities.NewStartNode("Name Search", "session-1")
	var err error
	middle, err = entities.NewResultNode(entities.NodeKindAPIResult, "Name Search",
		json.RawMessage(`{"people":[{"name":"Jane"}]}`), "session-1")
	require.NoError(t, err)
	leaf = entities.NewPersonNode("p-1", nil, nil, "Person Detail", "session-1")
	entities.LinkParentChild(root, middle)
	entities.LinkParentChild(middle, leaf)
	return root, middle, leaf
}

func TestResolve(t *testing.T) {
	root, middle, leaf := buildChain(t)
	all := []*entities.Node{root, middle, leaf}

	rel := Resolve(middle, all)

	assert.Same(t, root, rel.Parent)
	assert.True(t, rel.HasParent())
	assert.False(t, rel.IsOrphan())
	require.Len(t, rel.Children, 1)
	assert.Same(t, leaf, rel.Children[0])
	assert.Equal(t, 1, rel.EntityCounts.Persons)
}

func TestResolve_OrphanedRoot(t *testing.T) {
	// The parent was deleted: the reference dangles and the node reads as an
	// orphaned root
	root, middle, leaf := buildChain(t)
	all := []*entities.Node{root, leaf}

	rel := Resolve(leaf, all)

	assert.Nil(t, rel.Parent)
	assert.False(t, rel.HasParent())
	assert.True(t, rel.IsOrphan())
	_ = middle
}

func TestResolve_TrueRootIsNotOrphan(t *testing.T) {
	root := entities.NewStartNode("Name Search", "session-1")

	rel := Resolve(root, []*entities.Node{root})

	assert.False(t, rel.HasParent())
	assert.False(t, rel.IsOrphan())
}

func TestResolve_MissingChildrenSkipped(t *testing.T) {
	root, middle, leaf := buildChain(t)
	all := []*entities.Node{root, middle}

	rel := Resolve(middle, all)

	assert.Empty(t, rel.Children)
	_ = leaf
}

func TestLineage(t *testing.T) {
	root, middle, leaf := buildChain(t)
	all := []*entities.Node{root, middle, leaf}

	chain := Lineage(leaf, all)

	require.Len(t, chain, 2)
	// Nearest parent first
	assert.Same(t, middle, chain[0])
	assert.Same(t, root, chain[1])
}

func TestLineage_StopsAtMissingParent(t *testing.T) {
	root, middle, leaf := buildChain(t)
	all := []*entities.Node{root, leaf}

	chain := Lineage(leaf, all)

	assert.Empty(t, chain)
	_ = middle
}

func TestResolveAll(t *testing.T) {
	root, middle, leaf := buildChain(t)
	all := []*entities.Node{root, middle, leaf}

	rels := ResolveAll(all)

	require.Len(t, rels, 3)
	assert.Same(t, root, rels[0].Node)
	assert.Len(t, rels[0].Children, 1)
	assert.Same(t, root, rels[1].Parent)
	assert.Same(t, middle, rels[2].Parent)
}

func TestFindByEntity(t *testing.T) {
	root, middle, _ := buildChain(t)
	entityID := valueobjects.NewEntityIdentifier()
	traced := entities.NewPersonNode("p-2", nil, nil, "Person Detail", "session-1").
		WithTrigger(entityID, nil)
	all := []*entities.Node{root, middle, traced}

	got, ok := FindByEntity(entityID, all)

	require.True(t, ok)
	assert.Same(t, traced, got)

	_, ok = FindByEntity(valueobjects.NewEntityIdentifier(), all)
	assert.False(t, ok)

	// A zero id must not match nodes without a recorded trigger
	_, ok = FindByEntity(valueobjects.Identifier{}, all)
	assert.False(t, ok)
}
