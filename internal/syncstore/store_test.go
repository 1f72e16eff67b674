package syncstore

import (
	"context"
	"errors"
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/avelinestudio/aveline-backend/pkg/enums"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

type fakeLocal[T any] struct {
	mu    sync.Mutex
	data  map[string][]T
	saved chan []T
	err   error
}

func newFakeLocal[T any]() *fakeLocal[T] {
	return &fakeLocal[T]{data: make(map[string][]T), saved: make(chan []T, 16)}
}

func (f *fakeLocal[T]) Load(ctx context.Context, deviceID string) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.data[deviceID], nil
}

func (f *fakeLocal[T]) Save(ctx context.Context, deviceID string, items []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.data[deviceID] = items
	f.saved <- items
	return nil
}

type fakeRemote[T any] struct {
	mu     sync.Mutex
	docs   map[string][]T
	applys map[string]func([]T)
	saved  chan []T
	err    error
}

func newFakeRemote[T any]() *fakeRemote[T] {
	return &fakeRemote[T]{
		docs:   make(map[string][]T),
		applys: make(map[string]func([]T)),
		saved:  make(chan []T, 16),
	}
}

func (f *fakeRemote[T]) Load(ctx context.Context, userID string) ([]T, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.docs[userID], nil
}

func (f *fakeRemote[T]) Save(ctx context.Context, userID string, items []T) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.docs[userID] = items
	f.saved <- items
	return nil
}

func (f *fakeRemote[T]) Subscribe(ctx context.Context, userID string, apply func(items []T)) (func(), error) {
	f.mu.Lock()
	if f.err != nil {
		f.mu.Unlock()
		return nil, f.err
	}
	f.applys[userID] = apply
	current := f.docs[userID]
	f.mu.Unlock()

	// Mirrors the real subscription: the current document arrives
	// asynchronously right after subscribing.
	go apply(current)

	stopped := false
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !stopped {
			delete(f.applys, userID)
			stopped = true
		}
	}, nil
}

// push simulates a remote change landing on the live subscription.
func (f *fakeRemote[T]) push(userID string, items []T) bool {
	f.mu.Lock()
	apply, ok := f.applys[userID]
	f.mu.Unlock()
	if !ok {
		return false
	}
	apply(items)
	return true
}

func testStore(t *testing.T, local *fakeLocal[string], remote *fakeRemote[string]) *Store[string] {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	s := New[string](context.Background(), enums.StoreKindCart, "device-1", local, remote, logg, nil)
	t.Cleanup(s.Close)
	return s
}

func waitForItems(t *testing.T, s *Store[string], want []string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got := s.Items(context.Background())
		if reflect.DeepEqual(got, want) || (len(got) == 0 && len(want) == 0) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("store never reached %v, last saw %v", want, s.Items(context.Background()))
}

func waitForSave[T any](t *testing.T, saved chan []T) []T {
	t.Helper()
	select {
	case items := <-saved:
		return items
	case <-time.After(2 * time.Second):
		t.Fatal("flush never reached the backend")
		return nil
	}
}

func TestAnonymousMutationFlushesToLocal(t *testing.T) {
	local := newFakeLocal[string]()
	s := testStore(t, local, newFakeRemote[string]())

	got := s.Apply(context.Background(), func(items []string) []string {
		return append(items, "a")
	})
	if !reflect.DeepEqual(got, []string{"a"}) {
		t.Fatalf("mutation result not applied synchronously: %v", got)
	}

	if saved := waitForSave(t, local.saved); !reflect.DeepEqual(saved, []string{"a"}) {
		t.Fatalf("unexpected local flush %v", saved)
	}
}

func TestNewSeedsFromLocalSnapshot(t *testing.T) {
	local := newFakeLocal[string]()
	local.data["device-1"] = []string{"saved"}

	s := testStore(t, local, newFakeRemote[string]())
	waitForItems(t, s, []string{"saved"})
}

func TestBindReplacesStateWithRemoteDocument(t *testing.T) {
	remote := newFakeRemote[string]()
	remote.docs["user-a"] = []string{"remote-item"}
	s := testStore(t, newFakeLocal[string](), remote)

	s.Apply(context.Background(), func(items []string) []string { return append(items, "anon-item") })

	if err := s.Bind(context.Background(), "user-a"); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	waitForItems(t, s, []string{"remote-item"})
}

func TestBoundMutationFlushesToRemote(t *testing.T) {
	remote := newFakeRemote[string]()
	s := testStore(t, newFakeLocal[string](), remote)

	if err := s.Bind(context.Background(), "user-a"); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	waitForItems(t, s, nil)

	s.Apply(context.Background(), func(items []string) []string { return append(items, "x") })
	if saved := waitForSave(t, remote.saved); !reflect.DeepEqual(saved, []string{"x"}) {
		t.Fatalf("unexpected remote flush %v", saved)
	}
}

func TestUnbindDropsRemoteStateAndReadsLocal(t *testing.T) {
	remote := newFakeRemote[string]()
	remote.docs["user-a"] = []string{"X"}
	local := newFakeLocal[string]()
	s := testStore(t, local, remote)

	if err := s.Bind(context.Background(), "user-a"); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	waitForItems(t, s, []string{"X"})

	if err := s.Unbind(context.Background()); err != nil {
		t.Fatalf("unbind failed: %v", err)
	}

	// The prior remote state must not survive the transition; local storage
	// had nothing saved, so the store is empty.
	if got := s.Items(context.Background()); len(got) != 0 {
		t.Fatalf("remote state leaked across identity transition: %v", got)
	}
	if remote.push("user-a", []string{"late"}) {
		t.Fatal("subscription should be closed after unbind")
	}
}

func TestRebindTearsDownOldIdentityFirst(t *testing.T) {
	remote := newFakeRemote[string]()
	remote.docs["user-a"] = []string{"a-item"}
	remote.docs["user-b"] = []string{"b-item"}
	s := testStore(t, newFakeLocal[string](), remote)

	if err := s.Bind(context.Background(), "user-a"); err != nil {
		t.Fatalf("bind a failed: %v", err)
	}
	waitForItems(t, s, []string{"a-item"})

	if err := s.Bind(context.Background(), "user-b"); err != nil {
		t.Fatalf("bind b failed: %v", err)
	}
	waitForItems(t, s, []string{"b-item"})

	if remote.push("user-a", []string{"stale"}) {
		t.Fatal("old identity's subscription should be closed")
	}
}

func TestRebindFailureRestoresDeviceSnapshot(t *testing.T) {
	local := newFakeLocal[string]()
	local.data["device-1"] = []string{"local-item"}
	remote := newFakeRemote[string]()
	remote.docs["user-a"] = []string{"a-item"}
	s := testStore(t, local, remote)

	if err := s.Bind(context.Background(), "user-a"); err != nil {
		t.Fatalf("bind a failed: %v", err)
	}
	waitForItems(t, s, []string{"a-item"})

	remote.mu.Lock()
	remote.err = errors.New("subscription unavailable")
	remote.mu.Unlock()

	if err := s.Bind(context.Background(), "user-b"); err == nil {
		t.Fatal("expected bind to fail")
	}

	// The old identity is gone and the store fell back to the device
	// snapshot, not an empty list.
	waitForItems(t, s, []string{"local-item"})
	if remote.push("user-a", []string{"stale"}) {
		t.Fatal("old identity's subscription should be closed")
	}
}

func TestRemoteSnapshotOverwritesOptimisticState(t *testing.T) {
	remote := newFakeRemote[string]()
	s := testStore(t, newFakeLocal[string](), remote)

	if err := s.Bind(context.Background(), "user-a"); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	waitForItems(t, s, nil)

	s.Apply(context.Background(), func(items []string) []string { return append(items, "mine") })

	// A snapshot from another device lands before our flush is confirmed.
	// Last writer wins: the snapshot replaces the optimistic state.
	if !remote.push("user-a", []string{"theirs"}) {
		t.Fatal("subscription not active")
	}
	waitForItems(t, s, []string{"theirs"})
}

func TestFlushFailureKeepsOptimisticState(t *testing.T) {
	local := newFakeLocal[string]()
	s := testStore(t, local, newFakeRemote[string]())

	local.mu.Lock()
	local.err = errors.New("write refused")
	local.mu.Unlock()

	got := s.Apply(context.Background(), func(items []string) []string { return append(items, "kept") })
	if !reflect.DeepEqual(got, []string{"kept"}) {
		t.Fatalf("optimistic state missing: %v", got)
	}

	// The failed flush must not roll memory back.
	time.Sleep(20 * time.Millisecond)
	waitForItems(t, s, []string{"kept"})
}

func TestCloseStopsSubscription(t *testing.T) {
	remote := newFakeRemote[string]()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	s := New[string](context.Background(), enums.StoreKindCart, "device-1", newFakeLocal[string](), remote, logg, nil)

	if err := s.Bind(context.Background(), "user-a"); err != nil {
		t.Fatalf("bind failed: %v", err)
	}
	s.Close()
	s.Close() // idempotent

	if got := s.Items(context.Background()); got != nil {
		t.Fatalf("closed store should return nil, got %v", got)
	}
}
