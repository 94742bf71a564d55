package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnsulf/jsf-ca-ecom-store/logging"
	"github.com/johnsulf/jsf-ca-ecom-store/storage"
)

func mustOpen(t *testing.T, r *Registry, cartID string) *Store {
	t.Helper()
	s, err := r.Open(context.Background(), cartID)
	require.NoError(t, err)
	return s
}

func TestRegistryKeysCartsSeparately(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	r := NewRegistry(st, "myapp-cart", logging.Discard())

	a := mustOpen(t, r, "a")
	b := mustOpen(t, r, "b")
	assert.Same(t, a, mustOpen(t, r, "a"))
	assert.NotSame(t, a, b)
	assert.Equal(t, "myapp-cart:a", a.Key())

	a.AddToCart(ctx, productA)
	assert.Empty(t, b.Items())

	stored, err := st.Get(ctx, "myapp-cart:a")
	require.NoError(t, err)
	assert.Len(t, Restore(stored).Items, 1)
}

func TestRegistryRestoresFromStorage(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	mustOpen(t, NewRegistry(st, "p", logging.Discard()), "x").AddToCart(ctx, productB)

	s := mustOpen(t, NewRegistry(st, "p", logging.Discard()), "x")
	require.Len(t, s.Items(), 1)
	assert.Equal(t, productB.ID, s.Items()[0].Product.ID)
}

func TestRegistryOpenConcurrently(t *testing.T) {
	r := NewRegistry(storage.NewMemory(), "p", logging.Discard())

	stores := make([]*Store, 20)
	var wg sync.WaitGroup
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := r.Open(context.Background(), "shared")
			assert.NoError(t, err)
			stores[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range stores {
		assert.Same(t, stores[0], s)
	}
}

func TestRegistryOpenIgnoresCancelledContext(t *testing.T) {
	st := newFakeStorage()
	// behave like a network backend that honours cancellation
	st.GetFn = func(ctx context.Context, key string) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return st.mem.Get(ctx, key)
	}
	r := NewRegistry(st, "p", logging.Discard())
	seed, err := Marshal(Reduce(Reduce(Empty(), AddItem{Product: productA}), AddItem{Product: productA}))
	require.NoError(t, err)
	require.NoError(t, st.mem.Set(context.Background(), r.Key("x"), seed))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s, err := r.Open(ctx, "x")
	require.NoError(t, err)
	require.Len(t, s.Items(), 1)
	assert.Equal(t, 2, s.Items()[0].Quantity)

	s.AddToCart(context.Background(), productB)
	stored, err := st.mem.Get(context.Background(), r.Key("x"))
	require.NoError(t, err)
	assert.Len(t, Restore(stored).Items, 2)
}

func TestRegistryReadFailureIsNotCached(t *testing.T) {
	ctx := context.Background()
	st := newFakeStorage()
	r := NewRegistry(st, "p", logging.Discard())
	seed, err := Marshal(Reduce(Empty(), AddItem{Product: productA}))
	require.NoError(t, err)
	require.NoError(t, st.mem.Set(ctx, r.Key("x"), seed))

	st.GetFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("connection reset") }
	_, err = r.Open(ctx, "x")
	require.Error(t, err)
	_, err = r.State(ctx, "x")
	require.Error(t, err)
	assert.Zero(t, st.sets, "nothing may be written after a failed read")

	st.GetFn = nil
	s, err := r.Open(ctx, "x")
	require.NoError(t, err)
	s.AddToCart(ctx, productB)

	stored, err := st.mem.Get(ctx, r.Key("x"))
	require.NoError(t, err)
	items := Restore(stored).Items
	require.Len(t, items, 2)
	assert.Equal(t, productA.ID, items[0].Product.ID)
}

func TestRegistryStateDoesNotRetainCarts(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	r := NewRegistry(st, "p", logging.Discard())

	for i := 0; i < 1000; i++ {
		state, err := r.State(ctx, fmt.Sprintf("cart-%d", i))
		require.NoError(t, err)
		require.Empty(t, state.Items)
	}
	assert.Zero(t, r.Len())

	mustOpen(t, r, "kept").AddToCart(ctx, productA)
	state, err := r.State(ctx, "kept")
	require.NoError(t, err)
	assert.Len(t, state.Items, 1)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryEvictsIdleCarts(t *testing.T) {
	ctx := context.Background()
	st := storage.NewMemory()
	r := NewRegistry(st, "p", logging.Discard())
	r.SetIdleTTL(time.Minute)
	clock := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return clock }

	old := mustOpen(t, r, "old")
	old.AddToCart(ctx, productA)
	for i := 0; i < 100; i++ {
		mustOpen(t, r, fmt.Sprintf("cart-%d", i))
	}
	assert.Equal(t, 101, r.Len())

	clock = clock.Add(2 * time.Minute)
	fresh := mustOpen(t, r, "new")
	assert.Equal(t, 1, r.Len())
	assert.Empty(t, fresh.Items())

	// an evicted cart comes back from storage
	reopened := mustOpen(t, r, "old")
	assert.NotSame(t, old, reopened)
	assert.Equal(t, old.State(), reopened.State())
}
