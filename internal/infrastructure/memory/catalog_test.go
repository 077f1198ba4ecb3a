package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/Zhima-Mochi/minishop-checkout/internal/domain/catalog"
)

func TestCatalogSaveGetList(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()

	cheese, err := domain.NewExpiring("Cheese", 100, 10, time.Now().AddDate(0, 0, 3), 0.4)
	require.NoError(t, err)
	card, err := domain.NewDigital("Scratch Card", 50, 100)
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, cheese))
	require.NoError(t, store.Save(ctx, card))

	got, err := store.Get(ctx, cheese.ID())
	require.NoError(t, err)
	// Shared pointer: stock mutations must be visible through the store.
	require.NoError(t, got.ReduceStock(2))
	assert.Equal(t, 8, cheese.Stock())

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cheese", list[0].Name())
	assert.Equal(t, "Scratch Card", list[1].Name())
}

func TestCatalogGetNotFound(t *testing.T) {
	store := NewCatalog()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogSaveIsIdempotentPerID(t *testing.T) {
	ctx := context.Background()
	store := NewCatalog()

	card, err := domain.NewDigital("Scratch Card", 50, 100)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, card))
	require.NoError(t, store.Save(ctx, card))

	list, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCatalogSaveNil(t *testing.T) {
	err := NewCatalog().Save(context.Background(), nil)
	assert.Error(t, err)
}
