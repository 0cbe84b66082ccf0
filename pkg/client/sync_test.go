package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore lets tests control timing and count how many calls actually
// reach the remote side.
type fakeStore struct {
	mu            sync.Mutex
	items         []Testimonial
	listCalls     int
	removeCalls   map[string]int
	approvalCalls map[string]int
	listErr       error

	listGate     chan struct{}
	removeGate   chan struct{}
	approvalGate chan struct{}

	handler      func(ChangeEvent)
	unsubscribed int
}

func newFakeStore(items ...Testimonial) *fakeStore {
	return &fakeStore{
		items:         items,
		removeCalls:   make(map[string]int),
		approvalCalls: make(map[string]int),
	}
}

func (f *fakeStore) List(ctx context.Context, includeUnapproved bool) ([]Testimonial, error) {
	f.mu.Lock()
	f.listCalls++
	gate := f.listGate
	err := f.listErr
	out := make([]Testimonial, len(f.items))
	copy(out, f.items)
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if err != nil {
		return []Testimonial{}, err
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, draft Draft) (Testimonial, error) {
	return Testimonial{}, errors.New("not implemented")
}

func (f *fakeStore) Remove(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	f.removeCalls[id]++
	gate := f.removeGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return true, nil
}

func (f *fakeStore) SetApproval(ctx context.Context, id string, approved bool) (bool, error) {
	f.mu.Lock()
	f.approvalCalls[id]++
	gate := f.approvalGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return true, nil
}

func (f *fakeStore) SubscribeChanges(ctx context.Context, handler func(ChangeEvent)) (func(), error) {
	f.mu.Lock()
	f.handler = handler
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		f.unsubscribed++
		f.mu.Unlock()
	}, nil
}

func (f *fakeStore) counts() (int, map[string]int, map[string]int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	removes := make(map[string]int, len(f.removeCalls))
	for k, v := range f.removeCalls {
		removes[k] = v
	}
	approvals := make(map[string]int, len(f.approvalCalls))
	for k, v := range f.approvalCalls {
		approvals[k] = v
	}
	return f.listCalls, removes, approvals
}

func written(id, name, text string) Testimonial {
	return Testimonial{
		ID:      id,
		Name:    name,
		Type:    TypeWritten,
		Written: &WrittenContent{Text: text},
	}
}

func TestControllerInitialLoad(t *testing.T) {
	store := newFakeStore(
		written("a", "Jane Doe", "Great program"),
		written("b", "Alex Chen", "Changed my career"),
	)

	ctrl := NewController(store, true)
	defer ctrl.Close()

	assert.Equal(t, StateLoading, ctrl.State())
	require.NoError(t, ctrl.Open(context.Background()))

	assert.Equal(t, StateReady, ctrl.State())
	assert.Len(t, ctrl.Items(), 2)
}

func TestControllerLoadFailureKeepsEmptyList(t *testing.T) {
	store := newFakeStore(written("a", "Jane Doe", "Great program"))
	store.listErr = errors.New("store unavailable")

	ctrl := NewController(store, true)
	defer ctrl.Close()

	err := ctrl.Open(context.Background())
	require.Error(t, err)

	// Degrades to an empty wall instead of crashing, ready for a retry.
	assert.Equal(t, StateReady, ctrl.State())
	assert.Empty(t, ctrl.Items())
}

func TestControllerApprovalSingleFlight(t *testing.T) {
	store := newFakeStore(written("a", "Jane Doe", "Great program"))
	gate := make(chan struct{})
	store.approvalGate = gate

	ctrl := NewController(store, true)
	defer ctrl.Close()
	require.NoError(t, ctrl.Open(context.Background()))

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.SetApproval(context.Background(), "a", true)
		done <- err
	}()

	require.Eventually(t, func() bool {
		return ctrl.Approving("a")
	}, time.Second, time.Millisecond)

	// The duplicate is ignored, not queued, and never reaches the store.
	_, err := ctrl.SetApproval(context.Background(), "a", true)
	assert.ErrorIs(t, err, ErrOperationPending)

	close(gate)
	require.NoError(t, <-done)

	_, _, approvals := store.counts()
	assert.Equal(t, 1, approvals["a"])
}

func TestControllerConcurrentOpsOnDifferentIDsAreIndependent(t *testing.T) {
	store := newFakeStore(
		written("a", "Jane Doe", "Great program"),
		written("b", "Alex Chen", "Changed my career"),
	)
	gate := make(chan struct{})
	store.approvalGate = gate

	ctrl := NewController(store, true)
	defer ctrl.Close()
	require.NoError(t, ctrl.Open(context.Background()))

	done := make(chan struct{}, 2)
	for _, id := range []string{"a", "b"} {
		go func(id string) {
			_, _ = ctrl.SetApproval(context.Background(), id, true)
			done <- struct{}{}
		}(id)
	}

	require.Eventually(t, func() bool {
		return ctrl.Approving("a") && ctrl.Approving("b")
	}, time.Second, time.Millisecond)

	close(gate)
	<-done
	<-done

	_, _, approvals := store.counts()
	assert.Equal(t, 1, approvals["a"])
	assert.Equal(t, 1, approvals["b"])
}

func TestControllerOptimisticRemoval(t *testing.T) {
	store := newFakeStore(
		written("a", "Jane Doe", "Great program"),
		written("b", "Alex Chen", "Changed my career"),
	)

	ctrl := NewController(store, true)
	defer ctrl.Close()
	require.NoError(t, ctrl.Open(context.Background()))

	ok, err := ctrl.Remove(context.Background(), "a")
	require.NoError(t, err)
	require.True(t, ok)

	// Gone from the local list before any reload happened.
	listCalls, _, _ := store.counts()
	assert.Equal(t, 1, listCalls)

	items := ctrl.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "b", items[0].ID)
}

func TestControllerOptimisticApprovalPatch(t *testing.T) {
	store := newFakeStore(written("a", "Jane Doe", "Great program"))

	ctrl := NewController(store, true)
	defer ctrl.Close()
	require.NoError(t, ctrl.Open(context.Background()))

	ok, err := ctrl.SetApproval(context.Background(), "a", true)
	require.NoError(t, err)
	require.True(t, ok)

	items := ctrl.Items()
	require.Len(t, items, 1)
	assert.True(t, items[0].Approved)
}

func TestControllerCoalescesInvalidations(t *testing.T) {
	store := newFakeStore(written("a", "Jane Doe", "Great program"))

	ctrl := NewController(store, true)
	defer ctrl.Close()
	require.NoError(t, ctrl.Open(context.Background()))

	gate := make(chan struct{})
	store.mu.Lock()
	store.listGate = gate
	store.mu.Unlock()

	ctx := context.Background()
	ctrl.Invalidate(ctx)

	require.Eventually(t, func() bool {
		calls, _, _ := store.counts()
		return calls == 2
	}, time.Second, time.Millisecond)

	// These arrive while the reload is still in flight and must fold into
	// a single trailing reload.
	ctrl.Invalidate(ctx)
	ctrl.Invalidate(ctx)
	ctrl.Invalidate(ctx)

	store.mu.Lock()
	store.listGate = nil
	store.mu.Unlock()
	close(gate)

	require.Eventually(t, func() bool {
		calls, _, _ := store.counts()
		return calls == 3
	}, time.Second, time.Millisecond)

	// No further reloads sneak in afterwards.
	time.Sleep(50 * time.Millisecond)
	calls, _, _ := store.counts()
	assert.Equal(t, 3, calls)
}

func TestControllerReloadFailureKeepsPreviousList(t *testing.T) {
	store := newFakeStore(
		written("a", "Jane Doe", "Great program"),
		written("b", "Alex Chen", "Changed my career"),
	)

	ctrl := NewController(store, true)
	defer ctrl.Close()

	var snapMu sync.Mutex
	var snapshots [][]Testimonial
	ctrl.OnChange(func(items []Testimonial) {
		snapMu.Lock()
		snapshots = append(snapshots, items)
		snapMu.Unlock()
	})

	require.NoError(t, ctrl.Open(context.Background()))
	require.Len(t, ctrl.Items(), 2)

	store.mu.Lock()
	store.listErr = errors.New("store unavailable")
	store.mu.Unlock()

	ctrl.Invalidate(context.Background())

	require.Eventually(t, func() bool {
		calls, _, _ := store.counts()
		return calls == 2
	}, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	// The stale snapshot keeps showing rather than flickering empty.
	items := ctrl.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].ID)

	// And subscribers never saw an empty list from the failed reload.
	snapMu.Lock()
	defer snapMu.Unlock()
	for _, snap := range snapshots {
		assert.NotEmpty(t, snap)
	}
}

func TestControllerPushInvalidationReloads(t *testing.T) {
	store := newFakeStore(written("a", "Jane Doe", "Great program"))

	ctrl := NewController(store, true)
	defer ctrl.Close()
	require.NoError(t, ctrl.Open(context.Background()))

	store.mu.Lock()
	store.items = append(store.items, written("b", "Alex Chen", "Changed my career"))
	handler := store.handler
	store.mu.Unlock()
	require.NotNil(t, handler)

	handler(ChangeEvent{Op: "insert", ID: "b"})

	require.Eventually(t, func() bool {
		return len(ctrl.Items()) == 2
	}, time.Second, time.Millisecond)
}

func TestControllerCloseDiscardsLateResults(t *testing.T) {
	store := newFakeStore(
		written("a", "Jane Doe", "Great program"),
	)
	gate := make(chan struct{})
	store.removeGate = gate

	ctrl := NewController(store, true)
	require.NoError(t, ctrl.Open(context.Background()))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = ctrl.Remove(context.Background(), "a")
	}()

	require.Eventually(t, func() bool {
		return ctrl.Deleting("a")
	}, time.Second, time.Millisecond)

	ctrl.Close()
	close(gate)
	<-done

	// The result resolved after teardown and must not touch state.
	assert.Len(t, ctrl.Items(), 1)
}

func TestControllerCloseUnsubscribesExactlyOnce(t *testing.T) {
	store := newFakeStore(written("a", "Jane Doe", "Great program"))

	ctrl := NewController(store, true)
	require.NoError(t, ctrl.Open(context.Background()))

	ctrl.Close()
	ctrl.Close()

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Equal(t, 1, store.unsubscribed)
}

func TestControllerMutationsAfterCloseAreRejected(t *testing.T) {
	store := newFakeStore(written("a", "Jane Doe", "Great program"))

	ctrl := NewController(store, true)
	require.NoError(t, ctrl.Open(context.Background()))
	ctrl.Close()

	_, err := ctrl.Remove(context.Background(), "a")
	assert.ErrorIs(t, err, ErrControllerClosed)

	_, err = ctrl.SetApproval(context.Background(), "a", true)
	assert.ErrorIs(t, err, ErrControllerClosed)

	before, _, _ := store.counts()
	ctrl.Invalidate(context.Background())
	time.Sleep(20 * time.Millisecond)
	after, _, _ := store.counts()
	assert.Equal(t, before, after)
}
