package bot

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/pagatodo/finanzas-bot/internal/logger"
	"github.com/pagatodo/finanzas-bot/internal/models"
)

const expiredText = "⏰ Expiró. Intentá de nuevo."

// handleConfirmationCallback resolves the tx_* and delete_* inline
// keyboard buttons against the chat's pending action.
func (b *Bot) handleConfirmationCallback(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleConfirmationCallbackCore(ctx, tgBot, update)
}

// handleConfirmationCallbackCore is the testable implementation of
// handleConfirmationCallback.
func (b *Bot) handleConfirmationCallbackCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	query := update.CallbackQuery
	if query == nil || query.Message.Message == nil {
		return
	}
	chatID := query.Message.Message.Chat.ID
	messageID := query.Message.Message.ID

	// Answer first so the client stops showing the spinner, whatever
	// happens next.
	_, _ = tg.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: query.ID,
	})

	action, err := b.pending.Get(ctx, chatID)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Failed to read pending action")
		return
	}
	if action == nil || action.Expired(b.now()) {
		if action != nil {
			if err := b.pending.Clear(ctx, chatID); err != nil {
				logger.Log.Warn().
					Err(err).
					Str("chat_hash", logger.HashChatID(chatID)).
					Msg("Failed to clear expired pending action")
			}
		}
		b.editConfirmation(ctx, tg, chatID, messageID, expiredText, "")
		return
	}

	switch query.Data {
	case "tx_confirm":
		b.confirmCreate(ctx, tg, chatID, messageID, action)
	case "tx_cancel":
		b.clearPending(ctx, chatID)
		b.editConfirmation(ctx, tg, chatID, messageID, "❌ Cancelado.", "")
	case "delete_confirm":
		b.confirmDelete(ctx, tg, chatID, messageID, action)
	case "delete_cancel":
		b.clearPending(ctx, chatID)
		b.editConfirmation(ctx, tg, chatID, messageID, "👍 Cancelado.", "")
	default:
		logger.Log.Warn().
			Str("data", query.Data).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Unknown confirmation callback")
	}
}

// confirmCreate persists the staged transaction. On failure the
// pending slot is left intact so the user can tap confirm again.
func (b *Bot) confirmCreate(ctx context.Context, tg TelegramAPI, chatID int64, messageID int, action *models.PendingAction) {
	// A tx_* button pressed while a different action is staged means
	// the user tapped a leftover keyboard from an overwritten prompt.
	// Ignore it; the current pending action stays confirmable.
	if action.Action != models.PendingCreate || action.Transaction == nil {
		logger.Log.Warn().
			Str("chat_hash", logger.HashChatID(chatID)).
			Str("staged", string(action.Action)).
			Msg("Create callback does not match staged action")
		return
	}

	if err := b.transactions.Create(ctx, action.Transaction); err != nil {
		logger.Log.Error().
			Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Failed to persist transaction")
		b.editConfirmation(ctx, tg, chatID, messageID,
			"❌ No pude guardar. Tocá confirmar de nuevo.", "")
		return
	}
	b.clearPending(ctx, chatID)

	tx := action.Transaction
	text := fmt.Sprintf("%s <b>%s registrado</b>\n\n💵 <b>%s</b>\n📁 %s\n📝 %s\n\n<i>✅ Guardado</i>",
		typeEmoji[tx.Type],
		typeLabel[tx.Type],
		formatARS(tx.Amount),
		escapeHTML(models.CategoryLabel(tx.Category)),
		escapeHTML(tx.Description))

	b.editConfirmation(ctx, tg, chatID, messageID, text, tgmodels.ParseModeHTML)

	logger.Log.Info().
		Str("chat_hash", logger.HashChatID(chatID)).
		Str("owner_hash", logger.HashOwnerID(tx.OwnerID)).
		Str("type", string(tx.Type)).
		Str("category", tx.Category).
		Msg("Transaction created")
}

// confirmDelete removes the transaction staged by /eliminar.
func (b *Bot) confirmDelete(ctx context.Context, tg TelegramAPI, chatID int64, messageID int, action *models.PendingAction) {
	if action.Action != models.PendingDelete || action.TransactionID == 0 {
		logger.Log.Warn().
			Str("chat_hash", logger.HashChatID(chatID)).
			Str("staged", string(action.Action)).
			Msg("Delete callback does not match staged action")
		return
	}

	if err := b.transactions.Delete(ctx, action.TransactionID); err != nil {
		logger.Log.Error().
			Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Failed to delete transaction")
		b.editConfirmation(ctx, tg, chatID, messageID,
			"❌ No pude eliminar. Tocá confirmar de nuevo.", "")
		return
	}
	b.clearPending(ctx, chatID)
	b.editConfirmation(ctx, tg, chatID, messageID, "🗑 <b>Eliminado.</b>", tgmodels.ParseModeHTML)

	logger.Log.Info().
		Str("chat_hash", logger.HashChatID(chatID)).
		Int("transaction_id", action.TransactionID).
		Msg("Transaction deleted")
}

func (b *Bot) clearPending(ctx context.Context, chatID int64) {
	if err := b.pending.Clear(ctx, chatID); err != nil {
		logger.Log.Warn().
			Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Failed to clear pending action")
	}
}

// editConfirmation replaces the confirmation prompt; replacing the
// text also removes the inline keyboard.
func (b *Bot) editConfirmation(ctx context.Context, tg TelegramAPI, chatID int64, messageID int, text string, parseMode tgmodels.ParseMode) {
	_, err := tg.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    chatID,
		MessageID: messageID,
		Text:      text,
		ParseMode: parseMode,
	})
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Failed to edit confirmation message")
	}
}
