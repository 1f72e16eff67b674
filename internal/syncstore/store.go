package syncstore

import (
	"context"
	"sync"

	"github.com/avelinestudio/aveline-backend/pkg/enums"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
	"github.com/avelinestudio/aveline-backend/pkg/metrics"
)

// LocalBackend persists snapshots for anonymous sessions, keyed by device.
type LocalBackend[T any] interface {
	Load(ctx context.Context, deviceID string) ([]T, error)
	Save(ctx context.Context, deviceID string, items []T) error
}

// RemoteBackend persists snapshots for authenticated sessions, keyed by
// user. Subscribe delivers the current document immediately and every
// subsequent change until the returned stop function is called.
type RemoteBackend[T any] interface {
	Load(ctx context.Context, userID string) ([]T, error)
	Save(ctx context.Context, userID string, items []T) error
	Subscribe(ctx context.Context, userID string, apply func(items []T)) (stop func(), err error)
}

// Store holds an in-memory item list mirrored to exactly one backend at a
// time: the local device snapshot while anonymous, the remote per-user
// document while bound. All state is owned by a single reducer goroutine and
// every access goes through its event channel, which makes the
// last-writer-wins behavior between mutations and remote snapshots explicit.
type Store[T any] struct {
	kind     enums.StoreKind
	deviceID string
	local    LocalBackend[T]
	remote   RemoteBackend[T]
	logger   *logger.Logger
	metrics  *metrics.SyncStoreMetrics

	events chan event[T]
	done   chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

type event[T any] interface{ isEvent() }

type mutateEvent[T any] struct {
	fn    func(items []T) []T
	reply chan []T
}

type snapshotEvent[T any] struct {
	items []T
}

type bindEvent struct {
	userID string
	reply  chan error
}

type unbindEvent struct {
	reply chan error
}

type readEvent[T any] struct {
	reply chan []T
}

func (mutateEvent[T]) isEvent()   {}
func (snapshotEvent[T]) isEvent() {}
func (bindEvent) isEvent()        {}
func (unbindEvent) isEvent()      {}
func (readEvent[T]) isEvent()     {}

// New creates a store in the anonymous state, seeded from the device's
// local snapshot when one exists.
func New[T any](ctx context.Context, kind enums.StoreKind, deviceID string, local LocalBackend[T], remote RemoteBackend[T], logg *logger.Logger, m *metrics.SyncStoreMetrics) *Store[T] {
	storeCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Store[T]{
		kind:     kind,
		deviceID: deviceID,
		local:    local,
		remote:   remote,
		logger:   logg,
		metrics:  m,
		events:   make(chan event[T]),
		done:     make(chan struct{}),
		ctx:      storeCtx,
		cancel:   cancel,
	}

	var seed []T
	if local != nil && deviceID != "" {
		items, err := local.Load(storeCtx, deviceID)
		if err != nil {
			s.logFlushFailure(storeCtx, "local", err)
		} else {
			seed = items
		}
	}

	go s.run(seed)
	return s
}

// Kind reports which collection this store mirrors.
func (s *Store[T]) Kind() enums.StoreKind {
	return s.kind
}

// Items returns a copy of the current in-memory list.
func (s *Store[T]) Items(ctx context.Context) []T {
	reply := make(chan []T, 1)
	select {
	case s.events <- readEvent[T]{reply: reply}:
		return <-reply
	case <-s.done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Apply runs fn against the current list, installs the result in memory
// synchronously, and kicks off an asynchronous full-list flush to the
// active backend. The returned slice is the new in-memory state.
func (s *Store[T]) Apply(ctx context.Context, fn func(items []T) []T) []T {
	reply := make(chan []T, 1)
	select {
	case s.events <- mutateEvent[T]{fn: fn, reply: reply}:
		return <-reply
	case <-s.done:
		return nil
	case <-ctx.Done():
		return nil
	}
}

// Bind transitions the store to the authenticated state for userID: the
// local mirror is abandoned and a live subscription on the user's remote
// document replaces in-memory state wholesale on every remote change.
// Binding while already bound to a different user tears the old
// subscription down first; no state carries across identities.
func (s *Store[T]) Bind(ctx context.Context, userID string) error {
	reply := make(chan error, 1)
	select {
	case s.events <- bindEvent{userID: userID, reply: reply}:
		return <-reply
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Unbind transitions the store back to the anonymous state: the remote
// subscription is closed and the device's local snapshot (or an empty
// list) replaces in-memory state.
func (s *Store[T]) Unbind(ctx context.Context) error {
	reply := make(chan error, 1)
	select {
	case s.events <- unbindEvent{reply: reply}:
		return <-reply
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears down the subscription, stops the reducer, and releases the
// store. In-flight flushes are abandoned.
func (s *Store[T]) Close() {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.done)
	})
}

// run is the single reducer goroutine. It is the only writer of items,
// userID and the subscription handle.
func (s *Store[T]) run(seed []T) {
	items := seed
	var userID string
	var stopSubscription func()

	defer func() {
		if stopSubscription != nil {
			stopSubscription()
		}
	}()

	for {
		select {
		case <-s.done:
			return
		case ev := <-s.events:
			switch ev := ev.(type) {
			case readEvent[T]:
				ev.reply <- cloneItems(items)

			case mutateEvent[T]:
				items = ev.fn(cloneItems(items))
				ev.reply <- cloneItems(items)
				s.flushAsync(userID, cloneItems(items))

			case snapshotEvent[T]:
				// A remote snapshot unconditionally overwrites in-memory
				// state, including optimistic state whose flush has not
				// round-tripped. Last writer wins.
				items = ev.items
				s.metrics.IncSnapshot(s.kind.String())

			case bindEvent:
				if stopSubscription != nil {
					// Rebinding passes through the anonymous state: the old
					// identity is torn down and the device snapshot restored
					// before the new subscription is attempted, so a failed
					// subscribe leaves a usable anonymous store.
					stopSubscription()
					stopSubscription = nil
					userID = ""
					items = s.loadLocal()
				}
				stop, err := s.subscribe(ev.userID)
				if err != nil {
					ev.reply <- err
					continue
				}
				userID = ev.userID
				stopSubscription = stop
				ev.reply <- nil

			case unbindEvent:
				if stopSubscription != nil {
					stopSubscription()
					stopSubscription = nil
				}
				userID = ""
				items = s.loadLocal()
				ev.reply <- nil
			}
		}
	}
}

// subscribe opens the live remote subscription for userID. Snapshots are
// funneled back through the event channel so the reducer stays the single
// writer.
func (s *Store[T]) subscribe(userID string) (func(), error) {
	if s.remote == nil {
		return func() {}, nil
	}
	return s.remote.Subscribe(s.ctx, userID, func(items []T) {
		select {
		case s.events <- snapshotEvent[T]{items: items}:
		case <-s.done:
		case <-s.ctx.Done():
		}
	})
}

// flushAsync persists the full list to whichever backend is active. A
// failed flush is logged and counted; in-memory state is left as-is, so
// memory and persistence can diverge until the next successful write or
// remote snapshot.
func (s *Store[T]) flushAsync(userID string, items []T) {
	go func() {
		if userID != "" {
			if s.remote == nil {
				return
			}
			err := s.remote.Save(s.ctx, userID, items)
			s.metrics.ObserveFlush(s.kind.String(), "remote", err)
			if err != nil {
				s.logFlushFailure(s.ctx, "remote", err)
			}
			return
		}
		if s.local == nil || s.deviceID == "" {
			return
		}
		err := s.local.Save(s.ctx, s.deviceID, items)
		s.metrics.ObserveFlush(s.kind.String(), "local", err)
		if err != nil {
			s.logFlushFailure(s.ctx, "local", err)
		}
	}()
}

func (s *Store[T]) loadLocal() []T {
	if s.local == nil || s.deviceID == "" {
		return nil
	}
	items, err := s.local.Load(s.ctx, s.deviceID)
	if err != nil {
		s.logFlushFailure(s.ctx, "local", err)
		return nil
	}
	return items
}

func (s *Store[T]) logFlushFailure(ctx context.Context, backend string, err error) {
	if s.logger == nil {
		return
	}
	ctx = s.logger.WithStoreKind(ctx, s.kind.String())
	ctx = s.logger.WithField(ctx, "backend", backend)
	s.logger.Error(ctx, "sync store persistence failed", err)
}

func cloneItems[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}
