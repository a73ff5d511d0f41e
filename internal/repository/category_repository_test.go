package repository

import (
	"testing"

	"github.com/pagatodo/finanzas-bot/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository(t *testing.T) {
	pool, ctx := setupTestDB(t)
	repo := NewCategoryRepository(pool)

	t.Run("owner with no categories returns empty", func(t *testing.T) {
		categories, err := repo.GetByOwner(ctx, "owner-none")
		require.NoError(t, err)
		require.Empty(t, categories)
	})

	t.Run("create then read back, sorted by label", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.CustomCategory{
			OwnerID: "owner-1", Label: "Plazo Fijo", Value: "plazo-fijo", Type: models.TypeSavings,
		}))
		require.NoError(t, repo.Create(ctx, &models.CustomCategory{
			OwnerID: "owner-1", Label: "Mascotas", Value: "mascotas", Type: models.TypeExpense,
		}))

		categories, err := repo.GetByOwner(ctx, "owner-1")
		require.NoError(t, err)
		require.Len(t, categories, 2)
		require.Equal(t, "Mascotas", categories[0].Label)
		require.Equal(t, models.TypeExpense, categories[0].Type)
		require.Equal(t, "Plazo Fijo", categories[1].Label)
		require.Equal(t, models.TypeSavings, categories[1].Type)
	})

	t.Run("categories are scoped to their owner", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &models.CustomCategory{
			OwnerID: "owner-2", Label: "Viajes", Value: "viajes", Type: models.TypeExpense,
		}))

		categories, err := repo.GetByOwner(ctx, "owner-2")
		require.NoError(t, err)
		require.Len(t, categories, 1)
		require.Equal(t, "Viajes", categories[0].Label)
	})
}
