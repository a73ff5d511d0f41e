package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pagatodo/finanzas-bot/internal/database"
	"github.com/pagatodo/finanzas-bot/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionRepository handles transaction database operations.
type TransactionRepository struct {
	db database.PGXDB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db database.PGXDB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create persists a new transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.Source == "" {
		tx.Source = models.TransactionSourceTelegram
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO transactions (owner_id, type, amount, category, description, date, period_key, installments, installments_remaining, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`, tx.OwnerID, tx.Type, tx.Amount, tx.Category, tx.Description,
		tx.Date, tx.PeriodKey, tx.Installments, tx.InstallmentsRemaining, tx.Source,
	).Scan(&tx.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// LatestByPeriod returns the most recent transaction of a period, or
// nil when the period has none.
func (r *TransactionRepository) LatestByPeriod(
	ctx context.Context,
	ownerID, periodKey string,
) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.db.QueryRow(ctx, `
		SELECT id, owner_id, type, amount, category, description, date, period_key, installments, installments_remaining, source
		FROM transactions
		WHERE owner_id = $1 AND period_key = $2
		ORDER BY date DESC, id DESC
		LIMIT 1
	`, ownerID, periodKey).Scan(&tx.ID, &tx.OwnerID, &tx.Type, &tx.Amount, &tx.Category,
		&tx.Description, &tx.Date, &tx.PeriodKey, &tx.Installments, &tx.InstallmentsRemaining, &tx.Source)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest transaction: %w", err)
	}
	return &tx, nil
}

// Delete removes a transaction by ID. Deleting a missing row is a no-op.
func (r *TransactionRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return nil
}

// SummaryByPeriod aggregates an owner's month: totals per type plus
// expense amounts per category.
func (r *TransactionRepository) SummaryByPeriod(
	ctx context.Context,
	ownerID, periodKey string,
) (*models.PeriodSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT type, category, amount
		FROM transactions
		WHERE owner_id = $1 AND period_key = $2
	`, ownerID, periodKey)
	if err != nil {
		return nil, fmt.Errorf("failed to query period transactions: %w", err)
	}
	defer rows.Close()

	summary := &models.PeriodSummary{
		ByCategory: make(map[string]decimal.Decimal),
	}

	for rows.Next() {
		var txType models.TransactionType
		var category string
		var amount decimal.Decimal
		if err := rows.Scan(&txType, &category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan period transaction: %w", err)
		}

		summary.Count++
		switch txType {
		case models.TypeIncome:
			summary.Income = summary.Income.Add(amount)
		case models.TypeExpense:
			summary.Expenses = summary.Expenses.Add(amount)
			summary.ByCategory[category] = summary.ByCategory[category].Add(amount)
		case models.TypeSavings:
			summary.Savings = summary.Savings.Add(amount)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period transactions: %w", err)
	}
	return summary, nil
}
