package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations creates the database schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS linked_accounts (
			chat_id BIGINT PRIMARY KEY,
			owner_id TEXT NOT NULL,
			linked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS custom_categories (
			id SERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL,
			label TEXT NOT NULL,
			value TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'expense',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			owner_id TEXT NOT NULL,
			type TEXT NOT NULL,
			amount DECIMAL(14, 2) NOT NULL,
			category TEXT NOT NULL,
			description TEXT,
			date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			period_key TEXT NOT NULL,
			installments INTEGER NOT NULL DEFAULT 0,
			installments_remaining INTEGER NOT NULL DEFAULT 0,
			source TEXT NOT NULL DEFAULT 'telegram'
		)`,

		`CREATE INDEX IF NOT EXISTS idx_transactions_owner_period ON transactions(owner_id, period_key)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
		`CREATE INDEX IF NOT EXISTS idx_custom_categories_owner ON custom_categories(owner_id)`,

		// One confirmation slot per chat; a new put overwrites the row.
		`CREATE TABLE IF NOT EXISTS pending_actions (
			chat_id BIGINT PRIMARY KEY,
			payload JSONB NOT NULL,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}
