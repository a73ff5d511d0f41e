// Package repository provides database access for domain entities.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pagatodo/finanzas-bot/internal/database"
	"github.com/pagatodo/finanzas-bot/internal/models"
)

// AccountRepository handles chat-to-account link operations.
type AccountRepository struct {
	db database.PGXDB
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db database.PGXDB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Link associates a chat with a tracker account, replacing any
// previous link for that chat.
func (r *AccountRepository) Link(ctx context.Context, chatID int64, ownerID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO linked_accounts (chat_id, owner_id, linked_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (chat_id) DO UPDATE SET owner_id = EXCLUDED.owner_id, linked_at = NOW()
	`, chatID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to link account: %w", err)
	}
	return nil
}

// OwnerID returns the account linked to a chat, or "" when the chat is
// not linked.
func (r *AccountRepository) OwnerID(ctx context.Context, chatID int64) (string, error) {
	var ownerID string
	err := r.db.QueryRow(ctx, `
		SELECT owner_id FROM linked_accounts WHERE chat_id = $1
	`, chatID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get linked account: %w", err)
	}
	return ownerID, nil
}

// Get retrieves the full link record for a chat, or nil when absent.
func (r *AccountRepository) Get(ctx context.Context, chatID int64) (*models.LinkedAccount, error) {
	var acc models.LinkedAccount
	err := r.db.QueryRow(ctx, `
		SELECT chat_id, owner_id, linked_at FROM linked_accounts WHERE chat_id = $1
	`, chatID).Scan(&acc.ChatID, &acc.OwnerID, &acc.LinkedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get linked account: %w", err)
	}
	return &acc, nil
}
