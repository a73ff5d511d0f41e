package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pagatodo/finanzas-bot/internal/database"
	"github.com/pagatodo/finanzas-bot/internal/models"
)

// PendingRepository stores the per-chat confirmation slot in Postgres,
// alongside the durable data. It keeps pending state across restarts,
// which matters for a webhook deployment with no long-lived process.
type PendingRepository struct {
	db  database.PGXDB
	now func() time.Time
}

// NewPendingRepository creates a new PendingRepository.
func NewPendingRepository(db database.PGXDB) *PendingRepository {
	return &PendingRepository{db: db, now: time.Now}
}

// Put stages an action for a chat, overwriting any existing one.
// Last writer wins; there is no queue of pending actions per chat.
func (r *PendingRepository) Put(ctx context.Context, action *models.PendingAction, ttl time.Duration) error {
	action.ExpiresAt = r.now().Add(ttl)

	payload, err := json.Marshal(action)
	if err != nil {
		return fmt.Errorf("failed to encode pending action: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO pending_actions (chat_id, payload, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (chat_id) DO UPDATE SET
			payload = EXCLUDED.payload,
			expires_at = EXCLUDED.expires_at,
			created_at = NOW()
	`, action.ChatID, payload, action.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to store pending action: %w", err)
	}
	return nil
}

// Get returns the chat's pending action, or nil when none is staged.
// Expiry is not enforced here: the caller checks Expired and clears the
// stale slot it encounters (lazy expiry, no background sweep).
func (r *PendingRepository) Get(ctx context.Context, chatID int64) (*models.PendingAction, error) {
	var payload []byte
	var expiresAt time.Time
	err := r.db.QueryRow(ctx, `
		SELECT payload, expires_at FROM pending_actions WHERE chat_id = $1
	`, chatID).Scan(&payload, &expiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending action: %w", err)
	}

	var action models.PendingAction
	if err := json.Unmarshal(payload, &action); err != nil {
		return nil, fmt.Errorf("failed to decode pending action: %w", err)
	}
	action.ChatID = chatID
	action.ExpiresAt = expiresAt
	return &action, nil
}

// Clear removes the chat's pending action. Clearing an empty slot is a
// no-op, so retries after a partial failure are safe.
func (r *PendingRepository) Clear(ctx context.Context, chatID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM pending_actions WHERE chat_id = $1`, chatID)
	if err != nil {
		return fmt.Errorf("failed to clear pending action: %w", err)
	}
	return nil
}
