package treestate

import (
	"context"
	"errors"
	"testing"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	children map[uuid.UUID][]*models.TreeNode
	fail     map[uuid.UUID]error
	calls    []uuid.UUID
}

func (f *fakeLoader) GetChildren(_ context.Context, parentID uuid.UUID) ([]*models.TreeNode, error) {
	f.calls = append(f.calls, parentID)
	if err := f.fail[parentID]; err != nil {
		return nil, err
	}
	return f.children[parentID], nil
}

func TestExpandPath_LoadsEachLevelOnce(t *testing.T) {
	s, root := seeded()
	group := node(2, root)
	category := node(3, group)
	loader := &fakeLoader{children: map[uuid.UUID][]*models.TreeNode{
		root.ID:  {group},
		group.ID: {category},
	}}

	s = ExpandPath(context.Background(), s, loader, root.ID, group.ID)
	rows := Visible(s)

	require.Len(t, rows, 3)
	assert.Equal(t, category.ID, rows[2].Node.ID)
	assert.Equal(t, []uuid.UUID{root.ID, group.ID}, loader.calls)

	_ = ExpandPath(context.Background(), s, loader, root.ID)
	assert.Len(t, loader.calls, 2, "already loaded children are not fetched again")
}

func TestExpandPath_FailureRecorded(t *testing.T) {
	s, root := seeded()
	loader := &fakeLoader{fail: map[uuid.UUID]error{root.ID: errors.New("timeout")}}

	s = ExpandPath(context.Background(), s, loader, root.ID)

	rows := Visible(s)
	require.Len(t, rows, 1)
	assert.Equal(t, "timeout", rows[0].Error)
	assert.False(t, rows[0].Expanded)
}

func TestExpandPath_SkipsUnreachable(t *testing.T) {
	s, _ := seeded()
	loader := &fakeLoader{}

	s = ExpandPath(context.Background(), s, loader, uuid.New())

	assert.Empty(t, loader.calls)
	assert.Len(t, Visible(s), 1)
}
