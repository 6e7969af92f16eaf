package treestate

import (
	"testing"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(nivel int, parent *models.TreeNode) *models.TreeNode {
	n := &models.TreeNode{ID: uuid.New(), NivelActual: nivel, TipoRama: models.TipoRamaProduccion}
	if parent != nil {
		n.ParentID = &parent.ID
	}
	return n
}

func seeded() (State, *models.TreeNode) {
	root := node(models.NivelRaiz, nil)
	s, _ := Reduce(New(), RootsLoaded{Nodes: []*models.TreeNode{root}})
	return s, root
}

func TestToggle_UnloadedEmitsLoad(t *testing.T) {
	s, root := seeded()

	next, effects := Reduce(s, Toggle{ID: root.ID})

	require.Equal(t, []LoadChildren{{ID: root.ID}}, effects)
	assert.True(t, next.Expanded[root.ID])
	assert.True(t, next.Loading[root.ID])
	assert.False(t, s.Expanded[root.ID], "input state must not change")
}

func TestToggle_LoadedDoesNotReload(t *testing.T) {
	s, root := seeded()
	s, _ = Reduce(s, Expand{ID: root.ID})
	s, _ = Reduce(s, ChildrenLoaded{ParentID: root.ID, Children: []*models.TreeNode{node(2, root)}})
	s, _ = Reduce(s, Collapse{ID: root.ID})

	next, effects := Reduce(s, Toggle{ID: root.ID})

	assert.Empty(t, effects)
	assert.True(t, next.Expanded[root.ID])
	assert.False(t, next.Loading[root.ID])
}

func TestToggle_ExpandedCollapses(t *testing.T) {
	s, root := seeded()
	s, _ = Reduce(s, Expand{ID: root.ID})

	next, effects := Reduce(s, Toggle{ID: root.ID})

	assert.Empty(t, effects)
	assert.False(t, next.Expanded[root.ID])
}

func TestExpand_WhileLoadingEmitsNothing(t *testing.T) {
	s, root := seeded()
	s, _ = Reduce(s, Expand{ID: root.ID})
	s, _ = Reduce(s, Collapse{ID: root.ID})

	_, effects := Reduce(s, Expand{ID: root.ID})

	assert.Empty(t, effects)
}

func TestExpand_UnknownNodeIgnored(t *testing.T) {
	s, _ := seeded()

	next, effects := Reduce(s, Expand{ID: uuid.New()})

	assert.Empty(t, effects)
	assert.Equal(t, s, next)
}

func TestChildrenLoaded_StaleIsIgnored(t *testing.T) {
	s, root := seeded()
	s, _ = Reduce(s, Expand{ID: root.ID})
	s, _ = Reduce(s, CollapseAll{})

	next, _ := Reduce(s, ChildrenLoaded{ParentID: root.ID, Children: []*models.TreeNode{node(2, root)}})

	_, loaded := next.Children[root.ID]
	assert.False(t, loaded)
	assert.Len(t, next.Nodes, 1)
}

func TestChildrenLoaded_AfterCollapseStillStored(t *testing.T) {
	s, root := seeded()
	s, _ = Reduce(s, Expand{ID: root.ID})
	s, _ = Reduce(s, Collapse{ID: root.ID})
	child := node(2, root)

	next, _ := Reduce(s, ChildrenLoaded{ParentID: root.ID, Children: []*models.TreeNode{child}})

	assert.Equal(t, []uuid.UUID{child.ID}, next.Children[root.ID])
	assert.False(t, next.Expanded[root.ID])
}

func TestLoadFailed_CollapsesAndRecordsError(t *testing.T) {
	s, root := seeded()
	s, _ = Reduce(s, Toggle{ID: root.ID})

	next, _ := Reduce(s, LoadFailed{ParentID: root.ID, Err: "timeout"})

	assert.False(t, next.Expanded[root.ID])
	assert.False(t, next.Loading[root.ID])
	assert.Equal(t, "timeout", next.Errors[root.ID])

	retry, effects := Reduce(next, Toggle{ID: root.ID})
	assert.Equal(t, []LoadChildren{{ID: root.ID}}, effects)
	assert.Empty(t, retry.Errors[root.ID])
}

func TestVisible_HidesCollapsedDescendants(t *testing.T) {
	s, root := seeded()
	group := node(2, root)
	category := node(3, group)
	s, _ = Reduce(s, Expand{ID: root.ID})
	s, _ = Reduce(s, ChildrenLoaded{ParentID: root.ID, Children: []*models.TreeNode{group}})
	s, _ = Reduce(s, Expand{ID: group.ID})
	s, _ = Reduce(s, ChildrenLoaded{ParentID: group.ID, Children: []*models.TreeNode{category}})

	rows := Visible(s)
	require.Len(t, rows, 3)
	assert.Equal(t, 2, rows[2].Depth)

	s, _ = Reduce(s, Collapse{ID: root.ID})
	assert.Len(t, Visible(s), 1)

	s, _ = Reduce(s, Expand{ID: root.ID})
	assert.Len(t, Visible(s), 3, "descendant expansion survives an ancestor collapse")

	s, _ = Reduce(s, CollapseAll{})
	assert.Len(t, Visible(s), 1)
}
