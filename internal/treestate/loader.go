package treestate

import (
	"context"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
)

// Loader fetches the children of a node; TreeService satisfies it.
type Loader interface {
	GetChildren(ctx context.Context, parentID uuid.UUID) ([]*models.TreeNode, error)
}

// Apply reduces actions in order and runs every LoadChildren effect
// synchronously, feeding the outcome back before the next action.
func Apply(ctx context.Context, s State, loader Loader, actions ...Action) State {
	queue := append([]Action(nil), actions...)
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]

		var effects []LoadChildren
		s, effects = Reduce(s, a)
		for _, eff := range effects {
			children, err := loader.GetChildren(ctx, eff.ID)
			if err != nil {
				queue = append([]Action{LoadFailed{ParentID: eff.ID, Err: err.Error()}}, queue...)
				continue
			}
			queue = append([]Action{ChildrenLoaded{ParentID: eff.ID, Children: children}}, queue...)
		}
	}
	return s
}

// ExpandPath expands ids in order; ids whose node is unknown when reached
// are skipped.
func ExpandPath(ctx context.Context, s State, loader Loader, ids ...uuid.UUID) State {
	actions := make([]Action, 0, len(ids))
	for _, id := range ids {
		actions = append(actions, Expand{ID: id})
	}
	return Apply(ctx, s, loader, actions...)
}
