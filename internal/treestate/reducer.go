// Package treestate holds the expansion state of a lazily loaded tree view.
//
// State is an arena indexed by node id. Reduce never mutates its input and
// never performs I/O; loading children is requested through returned effects
// and the result is fed back as a ChildrenLoaded or LoadFailed action.
package treestate

import (
	"clinicalfresh/internal/models"

	"github.com/google/uuid"
)

type State struct {
	Roots    []uuid.UUID
	Nodes    map[uuid.UUID]*models.TreeNode
	Children map[uuid.UUID][]uuid.UUID
	Expanded map[uuid.UUID]bool
	Loading  map[uuid.UUID]bool
	Errors   map[uuid.UUID]string
}

func New() State {
	return State{
		Roots:    []uuid.UUID{},
		Nodes:    map[uuid.UUID]*models.TreeNode{},
		Children: map[uuid.UUID][]uuid.UUID{},
		Expanded: map[uuid.UUID]bool{},
		Loading:  map[uuid.UUID]bool{},
		Errors:   map[uuid.UUID]string{},
	}
}

// Action is one of RootsLoaded, Toggle, Expand, Collapse, ChildrenLoaded,
// LoadFailed or CollapseAll.
type Action interface {
	action()
}

type RootsLoaded struct{ Nodes []*models.TreeNode }

type Toggle struct{ ID uuid.UUID }

type Expand struct{ ID uuid.UUID }

type Collapse struct{ ID uuid.UUID }

type ChildrenLoaded struct {
	ParentID uuid.UUID
	Children []*models.TreeNode
}

type LoadFailed struct {
	ParentID uuid.UUID
	Err      string
}

type CollapseAll struct{}

func (RootsLoaded) action()    {}
func (Toggle) action()         {}
func (Expand) action()         {}
func (Collapse) action()       {}
func (ChildrenLoaded) action() {}
func (LoadFailed) action()     {}
func (CollapseAll) action()    {}

// LoadChildren asks the caller to fetch the children of ID.
type LoadChildren struct{ ID uuid.UUID }

// Reduce returns the next state and the loads the caller must start.
func Reduce(s State, a Action) (State, []LoadChildren) {
	switch a := a.(type) {
	case RootsLoaded:
		next := New()
		for _, n := range a.Nodes {
			next.Nodes[n.ID] = n
			next.Roots = append(next.Roots, n.ID)
		}
		return next, nil

	case Toggle:
		if s.Expanded[a.ID] {
			return collapse(s, a.ID), nil
		}
		return expand(s, a.ID)

	case Expand:
		if s.Expanded[a.ID] {
			return s, nil
		}
		return expand(s, a.ID)

	case Collapse:
		if !s.Expanded[a.ID] {
			return s, nil
		}
		return collapse(s, a.ID), nil

	case ChildrenLoaded:
		// A load nobody is waiting for anymore is dropped.
		if !s.Loading[a.ParentID] {
			return s, nil
		}
		next := s.clone()
		delete(next.Loading, a.ParentID)
		delete(next.Errors, a.ParentID)
		ids := make([]uuid.UUID, 0, len(a.Children))
		for _, c := range a.Children {
			next.Nodes[c.ID] = c
			ids = append(ids, c.ID)
		}
		next.Children[a.ParentID] = ids
		return next, nil

	case LoadFailed:
		if !s.Loading[a.ParentID] {
			return s, nil
		}
		next := s.clone()
		delete(next.Loading, a.ParentID)
		delete(next.Expanded, a.ParentID)
		next.Errors[a.ParentID] = a.Err
		return next, nil

	case CollapseAll:
		next := s.clone()
		next.Expanded = map[uuid.UUID]bool{}
		next.Loading = map[uuid.UUID]bool{}
		return next, nil
	}
	return s, nil
}

func expand(s State, id uuid.UUID) (State, []LoadChildren) {
	if _, known := s.Nodes[id]; !known {
		return s, nil
	}
	next := s.clone()
	next.Expanded[id] = true
	if _, loaded := s.Children[id]; loaded || s.Loading[id] {
		return next, nil
	}
	next.Loading[id] = true
	delete(next.Errors, id)
	return next, []LoadChildren{{ID: id}}
}

func collapse(s State, id uuid.UUID) State {
	next := s.clone()
	delete(next.Expanded, id)
	return next
}

// clone copies the maps one level deep; node values are shared.
func (s State) clone() State {
	next := State{
		Roots:    append([]uuid.UUID(nil), s.Roots...),
		Nodes:    make(map[uuid.UUID]*models.TreeNode, len(s.Nodes)),
		Children: make(map[uuid.UUID][]uuid.UUID, len(s.Children)),
		Expanded: make(map[uuid.UUID]bool, len(s.Expanded)),
		Loading:  make(map[uuid.UUID]bool, len(s.Loading)),
		Errors:   make(map[uuid.UUID]string, len(s.Errors)),
	}
	for k, v := range s.Nodes {
		next.Nodes[k] = v
	}
	for k, v := range s.Children {
		next.Children[k] = v
	}
	for k, v := range s.Expanded {
		next.Expanded[k] = v
	}
	for k, v := range s.Loading {
		next.Loading[k] = v
	}
	for k, v := range s.Errors {
		next.Errors[k] = v
	}
	return next
}

// Row is a node as it appears in the rendered tree.
type Row struct {
	Node     *models.TreeNode `json:"node"`
	Depth    int              `json:"depth"`
	Expanded bool             `json:"expanded"`
	Loading  bool             `json:"loading"`
	Error    string           `json:"error,omitempty"`
}

// Visible flattens the tree in display order, skipping the descendants of
// collapsed nodes.
func Visible(s State) []Row {
	rows := []Row{}
	var walk func(ids []uuid.UUID, depth int)
	walk = func(ids []uuid.UUID, depth int) {
		for _, id := range ids {
			n, ok := s.Nodes[id]
			if !ok {
				continue
			}
			rows = append(rows, Row{
				Node:     n,
				Depth:    depth,
				Expanded: s.Expanded[id],
				Loading:  s.Loading[id],
				Error:    s.Errors[id],
			})
			if s.Expanded[id] {
				walk(s.Children[id], depth+1)
			}
		}
	}
	walk(s.Roots, 0)
	return rows
}
