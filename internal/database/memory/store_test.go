package memory

import (
	"context"
	"testing"

	"github.com/evohome/evohome-cms/pkg/jsonvalue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_ReadWriteDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, ok, err := store.Read(ctx, "content", "homepage")
	require.NoError(t, err)
	assert.False(t, ok)

	doc := jsonvalue.MustParse(`{"hero":{"title":"Warm homes"}}`)
	require.NoError(t, store.Write(ctx, "content", "homepage", doc))

	got, ok, err := store.Read(ctx, "content", "homepage")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, jsonvalue.Equal(doc, got))

	require.NoError(t, store.Delete(ctx, "content", "homepage"))
	require.NoError(t, store.Delete(ctx, "content", "homepage"))

	_, ok, err = store.Read(ctx, "content", "homepage")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_ListKeysIsSortedAndScoped(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	for _, k := range []string{"b", "a", "c"} {
		require.NoError(t, store.Write(ctx, "pages", k, jsonvalue.EmptyObject()))
	}
	require.NoError(t, store.Write(ctx, "pagesx", "z", jsonvalue.EmptyObject()))

	keys, err := store.ListKeys(ctx, "pages")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, keys)

	empty, err := store.ListKeys(ctx, "leads")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewStore()
	assert.Error(t, store.Write(ctx, "content", "homepage", jsonvalue.EmptyObject()))
	_, _, err := store.Read(ctx, "content", "homepage")
	assert.Error(t, err)
}
