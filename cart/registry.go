package cart

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	models "github.com/johnsulf/jsf-ca-ecom-store/model"
	"github.com/johnsulf/jsf-ca-ecom-store/storage"
)

// DefaultIdleTTL is how long a cart stays in memory after its last use.
const DefaultIdleTTL = 30 * time.Minute

// Registry hands out one Store per cart id, restoring each from storage the
// first time it is asked for. Carts idle longer than the TTL are dropped and
// restored again on next use.
type Registry struct {
	storage storage.Storage
	prefix  string
	log     logrus.FieldLogger

	mu    sync.Mutex
	carts map[string]*openCart
	ttl   time.Duration
	now   func() time.Time
}

type openCart struct {
	mu       sync.Mutex // held while the cart is restored
	store    *Store
	lastUsed time.Time
}

func NewRegistry(st storage.Storage, prefix string, log logrus.FieldLogger) *Registry {
	return &Registry{
		storage: st,
		prefix:  prefix,
		log:     log,
		carts:   make(map[string]*openCart),
		ttl:     DefaultIdleTTL,
		now:     time.Now,
	}
}

// SetIdleTTL changes how long unused carts are kept. ttl <= 0 keeps the default.
func (r *Registry) SetIdleTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	r.mu.Lock()
	r.ttl = ttl
	r.mu.Unlock()
}

// Key is the storage key holding cartID.
func (r *Registry) Key(cartID string) string {
	return r.prefix + ":" + cartID
}

// Open returns the Store for cartID. The restore read is detached from ctx
// cancellation. A storage read failure is returned and no Store is kept, so
// a later call retries instead of overwriting the stored cart.
func (r *Registry) Open(ctx context.Context, cartID string) (*Store, error) {
	c := r.touch(cartID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store != nil {
		return c.store, nil
	}

	s, err := restoreStore(context.WithoutCancel(ctx), r.Key(cartID), r.storage, r.log.WithField("cart_id", cartID))
	if err != nil {
		return nil, err
	}
	c.store = s
	return s, nil
}

// State returns the current contents of cartID without keeping the cart
// in memory when it is not already open.
func (r *Registry) State(ctx context.Context, cartID string) (models.CartState, error) {
	r.mu.Lock()
	c, ok := r.carts[cartID]
	r.mu.Unlock()
	if ok {
		c.mu.Lock()
		s := c.store
		c.mu.Unlock()
		if s != nil {
			return s.State(), nil
		}
	}

	data, err := r.storage.Get(context.WithoutCancel(ctx), r.Key(cartID))
	if errors.Is(err, storage.ErrNotFound) {
		return Empty(), nil
	}
	if err != nil {
		return models.CartState{}, errors.Wrapf(err, "load cart %s", cartID)
	}
	return Restore(data), nil
}

// Len reports how many carts are held in memory.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// touch returns the entry for cartID, creating it if needed, and drops
// entries idle longer than ttl.
func (r *Registry) touch(cartID string) *openCart {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, c := range r.carts {
		if k != cartID && now.Sub(c.lastUsed) > r.ttl {
			delete(r.carts, k)
		}
	}

	c, ok := r.carts[cartID]
	if !ok {
		c = &openCart{}
		r.carts[cartID] = c
	}
	c.lastUsed = now
	return c
}
