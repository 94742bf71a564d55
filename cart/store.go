package cart

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	models "github.com/johnsulf/jsf-ca-ecom-store/model"
	"github.com/johnsulf/jsf-ca-ecom-store/storage"
)

// Listener receives every snapshot a Store installs. Listeners run
// synchronously inside the mutating call and must not dispatch on the
// same Store.
type Listener func(models.CartState)

// Store is a single cart persisted under one storage key. Transitions are
// serialized; each one installs a new snapshot, writes it to storage and
// notifies listeners before returning.
type Store struct {
	key     string
	storage storage.Storage
	log     logrus.FieldLogger

	// dispatchMu serializes whole transitions, listeners included; mu only
	// guards state so listeners and readers can call State.
	dispatchMu sync.Mutex
	mu         sync.Mutex
	state      models.CartState

	subMu     sync.Mutex
	listeners map[uint64]Listener
	nextSub   uint64
}

// NewStore restores the cart stored under key. A missing, unreadable or
// corrupt entry yields an empty cart; the failure is logged, never returned.
func NewStore(ctx context.Context, key string, st storage.Storage, log logrus.FieldLogger) *Store {
	s, err := restoreStore(ctx, key, st, log)
	if err != nil {
		s.log.WithError(err).Warn("failed to load cart from storage")
	}
	return s
}

// restoreStore is NewStore that also reports a failed storage read. The
// returned Store is always usable and starts empty on any failure.
func restoreStore(ctx context.Context, key string, st storage.Storage, log logrus.FieldLogger) (*Store, error) {
	s := &Store{
		key:       key,
		storage:   st,
		log:       log.WithField("cart_key", key),
		listeners: map[uint64]Listener{},
	}
	state, err := s.load(ctx)
	s.state = state
	return s, err
}

// load returns an error only when storage could not be read. Missing and
// corrupt entries are an empty cart.
func (s *Store) load(ctx context.Context) (models.CartState, error) {
	data, err := s.storage.Get(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return Empty(), nil
	}
	if err != nil {
		return Empty(), errors.Wrapf(err, "load %s", s.key)
	}
	state, err := Unmarshal(data)
	if err != nil {
		s.log.WithError(err).Warn("discarding unreadable stored cart")
		return Empty(), nil
	}
	return state, nil
}

func (s *Store) Key() string { return s.key }

// State returns a copy of the current snapshot.
func (s *Store) State() models.CartState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

func (s *Store) Items() []models.CartLineItem {
	return s.State().Items
}

func (s *Store) AddToCart(ctx context.Context, product models.Product) models.CartState {
	return s.Dispatch(ctx, AddItem{Product: product})
}

func (s *Store) RemoveFromCart(ctx context.Context, productID string) models.CartState {
	return s.Dispatch(ctx, RemoveItem{ProductID: productID})
}

func (s *Store) ClearCart(ctx context.Context) models.CartState {
	return s.Dispatch(ctx, ClearCart{})
}

// Dispatch applies action and returns the new snapshot. A storage write
// failure is logged; the in-memory state is not rolled back.
func (s *Store) Dispatch(ctx context.Context, action Action) models.CartState {
	_, next := s.dispatch(ctx, action)
	return next
}

// Drain empties the cart and returns the snapshot it replaced, as one transition.
func (s *Store) Drain(ctx context.Context) models.CartState {
	prev, _ := s.dispatch(ctx, ClearCart{})
	return prev
}

func (s *Store) dispatch(ctx context.Context, action Action) (prev, next models.CartState) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev = s.state
	next = Reduce(prev, action)
	s.state = next
	s.mu.Unlock()

	s.persist(ctx, next)

	for _, l := range s.snapshotListeners() {
		l(next.Clone())
	}
	return prev.Clone(), next.Clone()
}

func (s *Store) persist(ctx context.Context, state models.CartState) {
	data, err := Marshal(state)
	if err == nil {
		err = s.storage.Set(ctx, s.key, data)
	}
	if err != nil {
		s.log.WithError(err).Error("failed to save cart to storage")
	}
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.listeners, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) snapshotListeners() []Listener {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	out := make([]Listener, 0, len(s.listeners))
	for i := uint64(0); i < s.nextSub; i++ {
		if l, ok := s.listeners[i]; ok {
			out = append(out, l)
		}
	}
	return out
}
