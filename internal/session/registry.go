package session

import (
	"context"
	"sync"
	"time"

	"github.com/avelinestudio/aveline-backend/internal/cart"
	"github.com/avelinestudio/aveline-backend/internal/profile"
	"github.com/avelinestudio/aveline-backend/internal/syncstore"
	"github.com/avelinestudio/aveline-backend/internal/wishlist"
	"github.com/avelinestudio/aveline-backend/pkg/auth"
	"github.com/avelinestudio/aveline-backend/pkg/enums"
	pkgerrors "github.com/avelinestudio/aveline-backend/pkg/errors"
	"github.com/avelinestudio/aveline-backend/pkg/firestore"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
	"github.com/avelinestudio/aveline-backend/pkg/metrics"
	"github.com/avelinestudio/aveline-backend/pkg/redis"
)

// Identity is what a request resolves to: a device id always, a user id
// only when a valid bearer token was presented.
type Identity struct {
	DeviceID string
	UserID   string
	Role     auth.Role
}

// Stores bundles the three synced stores for one device session.
type Stores struct {
	Cart     *cart.Store
	Wishlist *wishlist.Store
	Profile  *profile.Store
}

type entry struct {
	stores    Stores
	boundUser string
	lastSeen  time.Time
}

// Registry owns one store set per device and drives their backend
// transitions purely from identity changes between requests: a request
// arriving with a user id binds the device's stores, a request without one
// unbinds them. Nothing else switches backends.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry

	redisClient *redis.Client
	fsClient    *firestore.Client
	logger      *logger.Logger
	metrics     *metrics.SyncStoreMetrics
	localTTL    time.Duration

	build func(ctx context.Context, deviceID string) Stores
}

func NewRegistry(redisClient *redis.Client, fsClient *firestore.Client, logg *logger.Logger, m *metrics.SyncStoreMetrics, localTTL time.Duration) *Registry {
	r := &Registry{
		sessions:    make(map[string]*entry),
		redisClient: redisClient,
		fsClient:    fsClient,
		logger:      logg,
		metrics:     m,
		localTTL:    localTTL,
	}
	r.build = r.buildStores
	return r
}

// Acquire returns the store set for the identity's device, creating it on
// first sight and applying any identity transition since the last request.
func (r *Registry) Acquire(ctx context.Context, identity Identity) (Stores, error) {
	if identity.DeviceID == "" {
		return Stores{}, pkgerrors.New(pkgerrors.CodeValidation, "device id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[identity.DeviceID]
	if !ok {
		sess = &entry{stores: r.build(ctx, identity.DeviceID)}
		r.sessions[identity.DeviceID] = sess
	}
	sess.lastSeen = time.Now()

	if sess.boundUser == identity.UserID {
		return sess.stores, nil
	}

	if identity.UserID == "" {
		if err := r.unbindAll(ctx, sess.stores); err != nil {
			return Stores{}, err
		}
	} else {
		if err := r.bindAll(ctx, sess.stores, identity.UserID); err != nil {
			return Stores{}, err
		}
	}
	sess.boundUser = identity.UserID
	return sess.stores, nil
}

// Sweep closes sessions idle longer than maxIdle and reports how many were
// released.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	released := 0
	cutoff := time.Now().Add(-maxIdle)
	for deviceID, sess := range r.sessions {
		if sess.lastSeen.After(cutoff) {
			continue
		}
		closeAll(sess.stores)
		delete(r.sessions, deviceID)
		released++
	}
	return released
}

// Close releases every session.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for deviceID, sess := range r.sessions {
		closeAll(sess.stores)
		delete(r.sessions, deviceID)
	}
}

func (r *Registry) buildStores(ctx context.Context, deviceID string) Stores {
	return Stores{
		Cart: cart.NewStore(syncstore.New[cart.Item](
			ctx, enums.StoreKindCart, deviceID,
			syncstore.NewRedisLocal[cart.Item](r.redisClient, enums.StoreKindCart, r.localTTL),
			syncstore.NewFirestoreRemote[cart.Item](r.fsClient, enums.StoreKindCart, r.logger),
			r.logger, r.metrics,
		)),
		Wishlist: wishlist.NewStore(syncstore.New[wishlist.Entry](
			ctx, enums.StoreKindWishlist, deviceID,
			syncstore.NewRedisLocal[wishlist.Entry](r.redisClient, enums.StoreKindWishlist, r.localTTL),
			syncstore.NewFirestoreRemote[wishlist.Entry](r.fsClient, enums.StoreKindWishlist, r.logger),
			r.logger, r.metrics,
		)),
		Profile: profile.NewStore(syncstore.New[profile.Record](
			ctx, enums.StoreKindProfile, deviceID,
			syncstore.NewRedisLocal[profile.Record](r.redisClient, enums.StoreKindProfile, r.localTTL),
			syncstore.NewFirestoreRemote[profile.Record](r.fsClient, enums.StoreKindProfile, r.logger),
			r.logger, r.metrics,
		)),
	}
}

func (r *Registry) bindAll(ctx context.Context, stores Stores, userID string) error {
	if err := stores.Cart.Bind(ctx, userID); err != nil {
		return err
	}
	if err := stores.Wishlist.Bind(ctx, userID); err != nil {
		return err
	}
	return stores.Profile.Bind(ctx, userID)
}

func (r *Registry) unbindAll(ctx context.Context, stores Stores) error {
	if err := stores.Cart.Unbind(ctx); err != nil {
		return err
	}
	if err := stores.Wishlist.Unbind(ctx); err != nil {
		return err
	}
	return stores.Profile.Unbind(ctx)
}

func closeAll(stores Stores) {
	stores.Cart.Close()
	stores.Wishlist.Close()
	stores.Profile.Close()
}
