package costview

import (
	"context"
	"sync"

	"clinicalfresh/internal/models"

	"github.com/google/uuid"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusErrored Status = "errored"
)

// Panel is the display state of one breakdown. Breakdown is the last one
// fetched successfully and survives later failures.
type Panel struct {
	Status    Status                `json:"status"`
	Breakdown *models.CostBreakdown `json:"breakdown,omitempty"`
	Error     string                `json:"error,omitempty"`
}

// Loading is the state a panel starts in.
func Loading() Panel {
	return Panel{Status: StatusLoading}
}

// Refresh moves a settled panel back to loading. A panel already loading
// is returned unchanged.
func (p Panel) Refresh() Panel {
	if p.Status == StatusLoading {
		return p
	}
	return Panel{Status: StatusLoading, Breakdown: p.Breakdown}
}

func (p Panel) Succeeded(b *models.CostBreakdown) Panel {
	if p.Status != StatusLoading {
		return p
	}
	return Panel{Status: StatusReady, Breakdown: b}
}

func (p Panel) Failed(err error) Panel {
	if p.Status != StatusLoading {
		return p
	}
	return Panel{Status: StatusErrored, Breakdown: p.Breakdown, Error: err.Error()}
}

// Fetcher loads a breakdown; RecipeCostService satisfies it.
type Fetcher interface {
	Breakdown(ctx context.Context, recipeID uuid.UUID) (*models.CostBreakdown, error)
}

// Board keeps one panel per recipe so a failed refresh can still serve the
// last good breakdown.
type Board struct {
	fetcher Fetcher

	mu     sync.Mutex
	panels map[uuid.UUID]Panel
}

func NewBoard(fetcher Fetcher) *Board {
	return &Board{fetcher: fetcher, panels: map[uuid.UUID]Panel{}}
}

// Load refreshes the panel of recipeID and returns its settled state.
func (b *Board) Load(ctx context.Context, recipeID uuid.UUID) Panel {
	b.mu.Lock()
	p, ok := b.panels[recipeID]
	if ok {
		p = p.Refresh()
	} else {
		p = Loading()
	}
	b.panels[recipeID] = p
	b.mu.Unlock()

	breakdown, err := b.fetcher.Breakdown(ctx, recipeID)

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		p = p.Failed(err)
	} else {
		p = p.Succeeded(breakdown)
	}
	b.panels[recipeID] = p
	return p
}

// Forget drops the cached panel of a recipe.
func (b *Board) Forget(recipeID uuid.UUID) {
	b.mu.Lock()
	delete(b.panels, recipeID)
	b.mu.Unlock()
}
