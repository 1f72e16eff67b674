package wishlist

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/avelinestudio/aveline-backend/internal/syncstore"
	"github.com/avelinestudio/aveline-backend/pkg/enums"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

type memoryLocal struct {
	mu   sync.Mutex
	data map[string][]Entry
}

func (m *memoryLocal) Load(ctx context.Context, deviceID string) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[deviceID], nil
}

func (m *memoryLocal) Save(ctx context.Context, deviceID string, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[deviceID] = entries
	return nil
}

func testStore(t *testing.T) *Store {
	t.Helper()
	local := &memoryLocal{data: make(map[string][]Entry)}
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	inner := syncstore.New[Entry](context.Background(), enums.StoreKindWishlist, "device-1", local, nil, logg, nil)
	t.Cleanup(inner.Close)
	return NewStore(inner)
}

func TestAddIsIdempotentPerProduct(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	entry := Entry{ProductID: "p1", Handle: "tee", Title: "Tee"}
	if _, err := store.Add(ctx, entry); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	entries, err := store.Add(ctx, entry)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("duplicate add should be a no-op, got %d entries", len(entries))
	}
}

func TestToggleAddsThenRemoves(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	entry := Entry{ProductID: "p1", Handle: "tee", Title: "Tee"}
	entries, err := store.Toggle(ctx, entry)
	if err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("toggle on absent product should add, got %d entries", len(entries))
	}

	entries, err = store.Toggle(ctx, entry)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("toggle on present product should remove, got %d entries", len(entries))
	}
	if store.Has(ctx, "p1") {
		t.Fatal("toggled-off product should be gone")
	}
}

func TestToggleRequiresProductID(t *testing.T) {
	store := testStore(t)

	_, err := store.Toggle(context.Background(), Entry{Title: "no id"})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, Entry{ProductID: "p1"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := store.Add(ctx, Entry{ProductID: "p2"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	entries := store.Remove(ctx, "p1")
	if len(entries) != 1 || entries[0].ProductID != "p2" {
		t.Fatalf("unexpected entries after remove: %v", entries)
	}

	// Removing an absent product is a no-op.
	entries = store.Remove(ctx, "p9")
	if len(entries) != 1 {
		t.Fatalf("remove of unknown product changed the list: %v", entries)
	}
}

func TestHas(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if store.Has(ctx, "p1") {
		t.Fatal("empty wishlist should not contain p1")
	}
	if _, err := store.Add(ctx, Entry{ProductID: "p1"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !store.Has(ctx, "p1") {
		t.Fatal("expected p1 to be saved")
	}
}

func TestAddRequiresProductID(t *testing.T) {
	store := testStore(t)
	_, err := store.Add(context.Background(), Entry{Title: "nameless"})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClear(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	if _, err := store.Add(ctx, Entry{ProductID: "p1"}); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if entries := store.Clear(ctx); len(entries) != 0 {
		t.Fatalf("clear left entries behind: %v", entries)
	}
}
