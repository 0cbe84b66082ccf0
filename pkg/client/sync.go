package client

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrOperationPending is returned when a delete or approval change is
// requested for an id that already has the same operation in flight. The
// duplicate request is ignored, never queued.
var ErrOperationPending = errors.New("an identical operation is already pending for this entity")

// ErrControllerClosed is returned for any mutation after Close.
var ErrControllerClosed = errors.New("the controller has been torn down")

type State int

const (
	StateLoading = State(iota)
	StateReady
)

// Controller owns the canonical client-side testimonial list and keeps it
// consistent under three interleaved inputs: user mutations, push
// invalidation, and the initial load. One controller per view; the list is
// never shared between instances.
type Controller struct {
	store             Store
	includeUnapproved bool

	mu          sync.Mutex
	state       State
	items       []Testimonial
	reloading   bool
	dirty       bool
	deleting    map[string]struct{}
	approving   map[string]struct{}
	closed      bool
	unsubscribe func()
	onChange    func([]Testimonial)
}

func NewController(store Store, includeUnapproved bool) *Controller {
	return &Controller{
		store:             store,
		includeUnapproved: includeUnapproved,
		state:             StateLoading,
		deleting:          make(map[string]struct{}),
		approving:         make(map[string]struct{}),
	}
}

// OnChange registers a callback fired with a snapshot whenever the visible
// list changes. Must be set before Open.
func (c *Controller) OnChange(fn func([]Testimonial)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Open performs the initial load and attaches to the push channel. A load
// failure leaves the list empty and Ready; the error is recoverable and it
// is the caller's job to surface a retryable notice. There is no retry loop
// here.
func (c *Controller) Open(ctx context.Context) error {
	items, listErr := c.store.List(ctx, c.includeUnapproved)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrControllerClosed
	}
	c.state = StateReady
	if listErr == nil {
		c.items = items
	}
	c.mu.Unlock()

	if listErr == nil {
		c.emitChange()
	}

	// Attach to the push channel even when the initial load failed, so the
	// next remote change can still bring the list back.
	unsubscribe, err := c.store.SubscribeChanges(ctx, func(ChangeEvent) {
		c.Invalidate(ctx)
	})
	if err != nil {
		if listErr != nil {
			return listErr
		}
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		unsubscribe()
		return ErrControllerClosed
	}
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	return listErr
}

// Invalidate schedules a background reload. The visible list is only
// replaced once the fresh result arrives, and invalidations landing while
// a reload is in flight coalesce into a single trailing reload.
func (c *Controller) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.reloading {
		c.dirty = true
		return
	}

	c.reloading = true
	go c.reload(ctx)
}

func (c *Controller) reload(ctx context.Context) {
	items, err := c.store.List(ctx, c.includeUnapproved)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.reloading = false
	changed := false
	if err != nil {
		// Keep showing the last known list rather than flickering empty.
		log.Warn().Err(err).Msg("An error occurred when reloading testimonials, keeping stale list...")
	} else {
		c.items = items
		changed = true
	}

	if c.dirty {
		c.dirty = false
		c.reloading = true
		go c.reload(ctx)
	}
	c.mu.Unlock()

	if changed {
		c.emitChange()
	}
}

// Items returns a snapshot of the canonical list.
func (c *Controller) Items() []Testimonial {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Testimonial, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Deleting reports whether a delete for the id is in flight.
func (c *Controller) Deleting(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.deleting[id]
	return ok
}

// Approving reports whether an approval change for the id is in flight.
func (c *Controller) Approving(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.approving[id]
	return ok
}

// Remove deletes the entity and, on success, drops it from the local list
// immediately instead of waiting for the next invalidation. At most one
// delete per id is in flight at a time.
func (c *Controller) Remove(ctx context.Context, id string) (bool, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrControllerClosed
	}
	if _, pending := c.deleting[id]; pending {
		c.mu.Unlock()
		return false, ErrOperationPending
	}
	c.deleting[id] = struct{}{}
	c.mu.Unlock()

	ok, err := c.store.Remove(ctx, id)

	c.mu.Lock()
	delete(c.deleting, id)
	if c.closed {
		// The view is gone, discard the result instead of applying it.
		c.mu.Unlock()
		return ok, err
	}

	changed := false
	if err == nil && ok {
		before := len(c.items)
		kept := c.items[:0]
		for _, item := range c.items {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		c.items = kept
		changed = len(c.items) != before
	}
	c.mu.Unlock()

	if changed {
		c.emitChange()
	}
	return ok, err
}

// SetApproval flips the approval flag and patches the local copy on
// success. The authoritative reload triggered by the resulting change event
// supersedes the patch if the server disagrees.
func (c *Controller) SetApproval(ctx context.Context, id string, approved bool) (bool, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false, ErrControllerClosed
	}
	if _, pending := c.approving[id]; pending {
		c.mu.Unlock()
		return false, ErrOperationPending
	}
	c.approving[id] = struct{}{}
	c.mu.Unlock()

	ok, err := c.store.SetApproval(ctx, id, approved)

	c.mu.Lock()
	delete(c.approving, id)
	if c.closed {
		c.mu.Unlock()
		return ok, err
	}

	changed := false
	if err == nil && ok {
		for idx := range c.items {
			if c.items[idx].ID == id {
				c.items[idx].Approved = approved
				changed = true
			}
		}
	}
	c.mu.Unlock()

	if changed {
		c.emitChange()
	}
	return ok, err
}

// Close releases the push subscription exactly once and bars every later
// state update. Operations resolving afterwards are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Controller) emitChange() {
	c.mu.Lock()
	fn := c.onChange
	var snapshot []Testimonial
	if fn != nil {
		snapshot = make([]Testimonial, len(c.items))
		copy(snapshot, c.items)
	}
	c.mu.Unlock()

	if fn != nil {
		fn(snapshot)
	}
}
