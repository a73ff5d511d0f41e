package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCategoryTypeFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slug string
		want TransactionType
	}{
		{slug: "salario", want: TypeIncome},
		{slug: "freelance", want: TypeIncome},
		{slug: "otros-ingresos", want: TypeIncome},
		{slug: "ahorros", want: TypeSavings},
		{slug: "inversiones", want: TypeSavings},
		{slug: "supermercado", want: TypeExpense},
		{slug: "tarjeta-credito", want: TypeExpense},
		{slug: "categoria-inventada", want: TypeExpense},
		{slug: "", want: TypeExpense},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CategoryTypeFor(tt.slug))
		})
	}
}

func TestCategoryLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		slug string
		want string
	}{
		{slug: "supermercado", want: "Supermercado"},
		{slug: "tarjeta-credito", want: "Tarjeta Credito"},
		{slug: "otros-gastos", want: "Otros Gastos"},
		{slug: "youtube-premium", want: "Youtube Premium"},
		{slug: "a-b-c", want: "A B C"},
		{slug: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, CategoryLabel(tt.slug))
		})
	}
}

func TestPeriodKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "2026-03", PeriodKey(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)))
	require.Equal(t, "2026-01", PeriodKey(time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC)))
	require.Equal(t, "2025-12", PeriodKey(time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)))
}

func TestPendingActionExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	action := PendingAction{ExpiresAt: now.Add(time.Minute)}

	require.False(t, action.Expired(now))
	require.False(t, action.Expired(now.Add(time.Minute)), "boundary is not expired")
	require.True(t, action.Expired(now.Add(time.Minute+time.Second)))
}

func TestPeriodSummaryAvailable(t *testing.T) {
	t.Parallel()

	summary := PeriodSummary{
		Income:   decimal.NewFromInt(500000),
		Expenses: decimal.NewFromInt(210000),
		Savings:  decimal.NewFromInt(80000),
	}
	require.True(t, decimal.NewFromInt(210000).Equal(summary.Available()))

	negative := PeriodSummary{
		Income:   decimal.NewFromInt(1000),
		Expenses: decimal.NewFromInt(5000),
	}
	require.True(t, decimal.NewFromInt(-4000).Equal(negative.Available()))
}
