package client

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/appetiteapp/backend/internal/model"
)

// LoadState is the catalog view's fetch state.
type LoadState int

const (
	StateIdle LoadState = iota
	StateLoading
	StateLoaded
	StateFailed
)

// Filter is the locally applied display predicate. Zero values mean "no
// filter"; set predicates compose with AND.
type Filter struct {
	Search        string
	Difficulty    string
	FavoritesOnly bool
}

// CatalogAPI is the server surface the controller needs. *Client satisfies
// it; tests substitute their own.
type CatalogAPI interface {
	List(ctx context.Context, opts ListOptions) ([]model.Recipe, error)
	Create(ctx context.Context, draft RecipeDraft) (*model.Recipe, error)
	SetFavorite(ctx context.Context, id uint, favorite bool) (*model.FavoriteStatus, error)
	Delete(ctx context.Context, id uint) error
}

// CatalogController owns the state behind a recipe list view: it fetches the
// full catalog once, derives the visible subset in memory on every filter
// change, and applies favorite toggles optimistically with rollback.
//
// It is explicit component-scoped state: the owning view creates one, calls
// Load on focus and pull-to-refresh, and drops it on unmount (cancelling the
// context it passed in). Nothing here survives the view.
type CatalogController struct {
	api CatalogAPI

	mu      sync.Mutex
	state   LoadState
	loadErr error
	recipes []model.Recipe
	filter  Filter

	// loadSeq orders overlapping loads so only the last issued one may
	// install its result.
	loadSeq     uint64
	loadApplied uint64

	// favSeq orders in-flight favorite toggles per recipe. A completing
	// request may only reconcile state if no later toggle for that recipe
	// was issued after it.
	favSeq map[uint]uint64

	// OnChange, when set, is invoked (outside the lock) after every state
	// mutation, for view re-render.
	OnChange func()
}

// NewCatalogController creates a controller over the given API.
func NewCatalogController(api CatalogAPI) *CatalogController {
	return &CatalogController{
		api:    api,
		favSeq: make(map[uint]uint64),
	}
}

// State returns the current load state and, for StateFailed, the error.
func (cc *CatalogController) State() (LoadState, error) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.state, cc.loadErr
}

// Load fetches the full unfiltered catalog. Safe to call concurrently for
// refresh-on-focus: the last issued load wins, earlier results are dropped.
// A load cancelled via ctx never mutates state.
func (cc *CatalogController) Load(ctx context.Context) error {
	cc.mu.Lock()
	cc.loadSeq++
	seq := cc.loadSeq
	cc.state = StateLoading
	cc.loadErr = nil
	cc.mu.Unlock()
	cc.notify()

	recipes, err := cc.api.List(ctx, ListOptions{})

	cc.mu.Lock()
	if seq < cc.loadSeq || seq <= cc.loadApplied {
		// Superseded by a later load.
		cc.mu.Unlock()
		return nil
	}
	if ctx.Err() != nil {
		// View went away mid-flight; leave state alone.
		cc.mu.Unlock()
		return ctx.Err()
	}
	cc.loadApplied = seq
	if err != nil {
		cc.state = StateFailed
		cc.loadErr = err
		cc.mu.Unlock()
		cc.notify()
		return err
	}
	cc.state = StateLoaded
	cc.recipes = recipes
	// The installed list is the newest server snapshot; toggles still in
	// flight must not revert or overwrite it when they come back.
	for id := range cc.favSeq {
		cc.favSeq[id]++
	}
	cc.mu.Unlock()
	cc.notify()
	return nil
}

// SetFilter replaces the display predicate. Purely in-memory; no request.
func (cc *CatalogController) SetFilter(f Filter) {
	cc.mu.Lock()
	cc.filter = f
	cc.mu.Unlock()
	cc.notify()
}

// Filter returns the current display predicate.
func (cc *CatalogController) Filter() Filter {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.filter
}

// Visible derives the displayed subset from the cached full list by
// applying the current filter. Cheap enough to run on every keystroke.
func (cc *CatalogController) Visible() []model.Recipe {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	search := strings.ToLower(strings.TrimSpace(cc.filter.Search))
	difficulty := model.ParseDifficulty(cc.filter.Difficulty)

	out := make([]model.Recipe, 0, len(cc.recipes))
	for _, r := range cc.recipes {
		if cc.filter.FavoritesOnly && !r.Favorite {
			continue
		}
		if difficulty != "" && r.Difficulty != difficulty {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(r.Title), search) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ToggleFavorite flips a recipe's favorite flag optimistically: the cached
// flag changes before the request goes out, and is reverted only if the
// request fails and no later toggle for the same recipe superseded it.
// A NotFound means the recipe was deleted elsewhere; it is removed from the
// cached list rather than failing the view.
func (cc *CatalogController) ToggleFavorite(ctx context.Context, id uint) error {
	cc.mu.Lock()
	idx := cc.indexLocked(id)
	if idx < 0 {
		cc.mu.Unlock()
		return model.ErrNotFound
	}
	prev := cc.recipes[idx].Favorite
	desired := !prev
	cc.recipes[idx].Favorite = desired
	cc.favSeq[id]++
	seq := cc.favSeq[id]
	cc.mu.Unlock()
	cc.notify()

	status, err := cc.api.SetFavorite(ctx, id, desired)

	cc.mu.Lock()
	if cc.favSeq[id] != seq {
		// A later toggle owns the flag now; this result is stale either way.
		cc.mu.Unlock()
		return nil
	}
	switch {
	case errors.Is(err, model.ErrNotFound):
		cc.removeLocked(id)
		cc.mu.Unlock()
		cc.notify()
		return err
	case err != nil:
		if idx := cc.indexLocked(id); idx >= 0 {
			cc.recipes[idx].Favorite = prev
		}
		cc.mu.Unlock()
		cc.notify()
		return err
	default:
		// Server value is authoritative; normally equals the optimistic one.
		if idx := cc.indexLocked(id); idx >= 0 {
			cc.recipes[idx].Favorite = status.Favorite
		}
		cc.mu.Unlock()
		cc.notify()
		return nil
	}
}

// Create submits a draft and, on success, prepends the stored recipe to the
// cached list (newest first).
func (cc *CatalogController) Create(ctx context.Context, draft RecipeDraft) (*model.Recipe, error) {
	recipe, err := cc.api.Create(ctx, draft)
	if err != nil {
		return nil, err
	}
	cc.mu.Lock()
	cc.recipes = append([]model.Recipe{*recipe}, cc.recipes...)
	cc.mu.Unlock()
	cc.notify()
	return recipe, nil
}

// Delete removes a recipe. A NotFound still removes it locally, the entity
// is gone either way.
func (cc *CatalogController) Delete(ctx context.Context, id uint) error {
	err := cc.api.Delete(ctx, id)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return err
	}
	cc.mu.Lock()
	cc.removeLocked(id)
	cc.mu.Unlock()
	cc.notify()
	return err
}

func (cc *CatalogController) indexLocked(id uint) int {
	for i := range cc.recipes {
		if cc.recipes[i].ID == id {
			return i
		}
	}
	return -1
}

func (cc *CatalogController) removeLocked(id uint) {
	if idx := cc.indexLocked(id); idx >= 0 {
		cc.recipes = append(cc.recipes[:idx], cc.recipes[idx+1:]...)
	}
}

func (cc *CatalogController) notify() {
	if cc.OnChange != nil {
		cc.OnChange()
	}
}
