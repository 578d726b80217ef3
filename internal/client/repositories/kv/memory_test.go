package kv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	v, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, v)

	in := []byte("value")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'X'

	v, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "value", string(v), "stored bytes are copied")

	require.NoError(t, s.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))
	assert.ElementsMatch(t, []string{"k", "a", "b"}, s.Keys())

	require.NoError(t, s.Delete(ctx, "k"))
	assert.ElementsMatch(t, []string{"a", "b"}, s.Keys())
}

func TestStoresImplementBatch(t *testing.T) {
	var _ BatchStore = NewMemoryStore()
	var _ BatchStore = (*SQLiteStore)(nil)
}
