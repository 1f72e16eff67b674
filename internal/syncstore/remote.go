package syncstore

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/avelinestudio/aveline-backend/pkg/enums"
	"github.com/avelinestudio/aveline-backend/pkg/firestore"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

// FirestoreRemote mirrors a store's snapshot into a per-user document with
// live-subscription semantics.
type FirestoreRemote[T any] struct {
	client *firestore.Client
	kind   enums.StoreKind
	logger *logger.Logger
}

type remoteDocument[T any] struct {
	Items     []T       `firestore:"items"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func NewFirestoreRemote[T any](client *firestore.Client, kind enums.StoreKind, logg *logger.Logger) *FirestoreRemote[T] {
	return &FirestoreRemote[T]{client: client, kind: kind, logger: logg}
}

// Load returns the user's document contents, or an empty list when the
// document does not exist yet.
func (r *FirestoreRemote[T]) Load(ctx context.Context, userID string) ([]T, error) {
	snap, err := r.client.Doc(r.kind.Collection(), userID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading remote document: %w", err)
	}

	var doc remoteDocument[T]
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("decoding remote document: %w", err)
	}
	return doc.Items, nil
}

// Save overwrites the user's document with the full list. There is no
// merge; the write is a wholesale replacement.
func (r *FirestoreRemote[T]) Save(ctx context.Context, userID string, items []T) error {
	doc := remoteDocument[T]{Items: items, UpdatedAt: time.Now().UTC()}
	if _, err := r.client.Doc(r.kind.Collection(), userID).Set(ctx, doc); err != nil {
		return fmt.Errorf("saving remote document: %w", err)
	}
	return nil
}

// Subscribe watches the user's document. apply receives the current
// contents immediately and after every change, with a nil list when the
// document does not exist. The watch runs until stop is called or ctx ends.
func (r *FirestoreRemote[T]) Subscribe(ctx context.Context, userID string, apply func(items []T)) (func(), error) {
	watchCtx, cancel := context.WithCancel(ctx)
	iter := r.client.Doc(r.kind.Collection(), userID).Snapshots(watchCtx)

	go func() {
		for {
			snap, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled && r.logger != nil {
					logCtx := r.logger.WithStoreKind(watchCtx, r.kind.String())
					r.logger.Error(logCtx, "remote subscription ended", err)
				}
				return
			}
			if !snap.Exists() {
				apply(nil)
				continue
			}
			var doc remoteDocument[T]
			if err := snap.DataTo(&doc); err != nil {
				if r.logger != nil {
					logCtx := r.logger.WithStoreKind(watchCtx, r.kind.String())
					r.logger.Error(logCtx, "decoding remote snapshot failed", err)
				}
				continue
			}
			apply(doc.Items)
		}
	}()

	return func() {
		cancel()
		iter.Stop()
	}, nil
}
