package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnsulf/jsf-ca-ecom-store/config"
)

func TestMemoryCopiesValues(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrNotFound)

	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'x'

	out, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))
}

func TestOpenMemoryAndUnknown(t *testing.T) {
	st, err := Open(context.Background(), config.Config{StorageBackend: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, st)

	_, err = Open(context.Background(), config.Config{StorageBackend: "etcd"})
	assert.Error(t, err)
}
