package repository

import (
	"context"
	"testing"
	"time"

	"github.com/pagatodo/finanzas-bot/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestMemoryPendingStore(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	newStore := func() *MemoryPendingStore {
		store := NewMemoryPendingStore()
		store.Now = func() time.Time { return base }
		return store
	}

	t.Run("get on empty slot returns nil", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		action, err := store.Get(ctx, 123)
		require.NoError(t, err)
		require.Nil(t, action)
	})

	t.Run("put then get round-trips", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		err := store.Put(ctx, &models.PendingAction{
			ChatID: 123,
			Action: models.PendingCreate,
			Transaction: &models.Transaction{
				OwnerID:  "owner-1",
				Type:     models.TypeExpense,
				Amount:   decimal.NewFromInt(5000),
				Category: "supermercado",
			},
		}, time.Minute)
		require.NoError(t, err)

		action, err := store.Get(ctx, 123)
		require.NoError(t, err)
		require.NotNil(t, action)
		require.Equal(t, models.PendingCreate, action.Action)
		require.Equal(t, "supermercado", action.Transaction.Category)
		require.Equal(t, base.Add(time.Minute), action.ExpiresAt)
	})

	t.Run("one slot per chat, last write wins", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		require.NoError(t, store.Put(ctx, &models.PendingAction{
			ChatID: 123, Action: models.PendingCreate,
			Transaction: &models.Transaction{Category: "supermercado"},
		}, time.Minute))
		require.NoError(t, store.Put(ctx, &models.PendingAction{
			ChatID: 123, Action: models.PendingDelete, TransactionID: 42,
		}, time.Minute))

		action, err := store.Get(ctx, 123)
		require.NoError(t, err)
		require.Equal(t, models.PendingDelete, action.Action)
		require.Equal(t, 42, action.TransactionID)
	})

	t.Run("slots are per chat", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		require.NoError(t, store.Put(ctx, &models.PendingAction{ChatID: 1, Action: models.PendingCreate}, time.Minute))
		require.NoError(t, store.Put(ctx, &models.PendingAction{ChatID: 2, Action: models.PendingDelete}, time.Minute))

		first, err := store.Get(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, models.PendingCreate, first.Action)

		second, err := store.Get(ctx, 2)
		require.NoError(t, err)
		require.Equal(t, models.PendingDelete, second.Action)
	})

	t.Run("get returns expired entries for the caller to judge", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		require.NoError(t, store.Put(ctx, &models.PendingAction{ChatID: 123, Action: models.PendingCreate}, time.Minute))

		action, err := store.Get(ctx, 123)
		require.NoError(t, err)
		require.NotNil(t, action)
		require.False(t, action.Expired(base.Add(59*time.Second)))
		require.True(t, action.Expired(base.Add(61*time.Second)))
	})

	t.Run("clear removes the slot", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		require.NoError(t, store.Put(ctx, &models.PendingAction{ChatID: 123, Action: models.PendingCreate}, time.Minute))
		require.NoError(t, store.Clear(ctx, 123))

		action, err := store.Get(ctx, 123)
		require.NoError(t, err)
		require.Nil(t, action)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		require.NoError(t, store.Clear(ctx, 999))
		require.NoError(t, store.Clear(ctx, 999))
	})

	t.Run("returned action is a copy", func(t *testing.T) {
		t.Parallel()

		store := newStore()
		require.NoError(t, store.Put(ctx, &models.PendingAction{ChatID: 123, Action: models.PendingCreate, TransactionID: 1}, time.Minute))

		first, err := store.Get(ctx, 123)
		require.NoError(t, err)
		first.TransactionID = 99

		second, err := store.Get(ctx, 123)
		require.NoError(t, err)
		require.Equal(t, 1, second.TransactionID)
	})
}
