package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// DefaultConfirmWindow is how long a delete stays armed before the second,
// confirming trigger must have arrived.
const DefaultConfirmWindow = 3 * time.Second

// Notifier receives the terminal outcome of every moderation action. No
// mutation ever ends silent: it either succeeded or failed retryably.
type Notifier interface {
	Success(message string)
	Failure(message string)
}

type logNotifier struct{}

func (logNotifier) Success(message string) { log.Info().Msg(message) }
func (logNotifier) Failure(message string) { log.Error().Msg(message) }

// LogNotifier reports outcomes through the process logger.
func LogNotifier() Notifier { return logNotifier{} }

// Workflow is the moderation decision surface on top of a Controller:
// two-step confirmed deletes and single-step approval toggles.
type Workflow struct {
	ctrl     *Controller
	notifier Notifier
	window   time.Duration
	now      func() time.Time

	mu      sync.Mutex
	armedID string
	armedAt time.Time
}

func NewWorkflow(ctrl *Controller, notifier Notifier) *Workflow {
	if notifier == nil {
		notifier = LogNotifier()
	}
	return &Workflow{
		ctrl:     ctrl,
		notifier: notifier,
		window:   DefaultConfirmWindow,
		now:      time.Now,
	}
}

// Armed returns the id currently awaiting confirmation, or an empty string
// once the window has elapsed.
func (w *Workflow) Armed() string {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.armedID) > 0 && w.now().Sub(w.armedAt) > w.window {
		w.armedID = ""
	}
	return w.armedID
}

// RequestDelete implements the two-step confirmation: the first trigger
// arms the id, a second trigger on the same id inside the window executes
// the delete. Arming a different id replaces the previous arm, so at most
// one entity is armed per list. Reports whether the delete ran.
func (w *Workflow) RequestDelete(ctx context.Context, id string) bool {
	if len(id) == 0 {
		return false
	}

	w.mu.Lock()
	confirmed := w.armedID == id && w.now().Sub(w.armedAt) <= w.window
	if !confirmed {
		w.armedID = id
		w.armedAt = w.now()
		w.mu.Unlock()
		return false
	}
	w.armedID = ""
	w.mu.Unlock()

	ok, err := w.ctrl.Remove(ctx, id)
	switch {
	case errors.Is(err, ErrOperationPending):
		// A delete for this id is still running; ignore the duplicate.
		return false
	case err != nil:
		w.notifier.Failure("Error deleting testimonial. Please try again.")
		return false
	case !ok:
		w.notifier.Failure("Failed to delete testimonial. Please try again.")
		return false
	default:
		w.notifier.Success("Testimonial deleted successfully")
		return true
	}
}

// ToggleApproval flips the approval flag in a single step. While the same
// entity has an approval change in flight the request is a no-op.
func (w *Workflow) ToggleApproval(ctx context.Context, id string, approve bool) bool {
	if len(id) == 0 {
		return false
	}

	verb := lo.Ternary(approve, "approve", "unapprove")

	ok, err := w.ctrl.SetApproval(ctx, id, approve)
	switch {
	case errors.Is(err, ErrOperationPending):
		return false
	case err != nil:
		w.notifier.Failure("Error updating testimonial approval. Please try again.")
		return false
	case !ok:
		w.notifier.Failure("Failed to " + verb + " testimonial. Please try again.")
		return false
	default:
		w.notifier.Success("Testimonial " + lo.Ternary(approve, "approved", "unapproved") + " successfully")
		return true
	}
}
