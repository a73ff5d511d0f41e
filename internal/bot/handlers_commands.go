package bot

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/pagatodo/finanzas-bot/internal/logger"
	"github.com/pagatodo/finanzas-bot/internal/models"
	"github.com/shopspring/decimal"
)

// handleVincular handles /vincular <token>. Allowed unlinked: this is
// how a chat becomes linked in the first place.
func (b *Bot) handleVincular(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleVincularCore(ctx, tgBot, update)
}

// handleVincularCore is the testable implementation of handleVincular.
func (b *Bot) handleVincularCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	parts := strings.Fields(update.Message.Text)
	if len(parts) < 2 {
		_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      "🔗 <b>Vincular cuenta</b>\n\nEnviá tu identificador de cuenta:\n<code>/vincular TU_UID</code>",
			ParseMode: tgmodels.ParseModeHTML,
		})
		return
	}

	ownerID := parts[1]
	if err := b.accounts.Link(ctx, chatID, ownerID); err != nil {
		logger.Log.Error().
			Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Failed to link account")
		_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ No pude vincular la cuenta. Intentá de nuevo.",
		})
		return
	}

	logger.Log.Info().
		Str("chat_hash", logger.HashChatID(chatID)).
		Str("owner_hash", logger.HashOwnerID(ownerID)).
		Msg("Account linked")

	_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      fmt.Sprintf("✅ <b>¡Cuenta vinculada!</b>\n\nUID: <code>%s</code>\nEscribí /help para ver los comandos.", escapeHTML(ownerID)),
		ParseMode: tgmodels.ParseModeHTML,
	})
}

// handleResumen handles /resumen: the current month's report.
func (b *Bot) handleResumen(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleResumenCore(ctx, tgBot, update)
}

// handleResumenCore is the testable implementation of handleResumen.
func (b *Bot) handleResumenCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	ownerID := ownerIDFromContext(ctx)

	now := b.now()
	summary, err := b.transactions.SummaryByPeriod(ctx, ownerID, models.PeriodKey(now))
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("owner_hash", logger.HashOwnerID(ownerID)).
			Msg("Failed to build period summary")
		_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ No pude armar el resumen. Intentá de nuevo.",
		})
		return
	}

	_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      formatResumen(summary, now),
		ParseMode: tgmodels.ParseModeHTML,
	})
}

// formatResumen renders the monthly report.
func formatResumen(summary *models.PeriodSummary, now time.Time) string {
	available := summary.Available()

	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()
	remaining := daysInMonth - now.Day()
	daily := decimal.Zero
	if remaining > 0 {
		daily = decimal.Max(available.Div(decimal.NewFromInt(int64(remaining))), decimal.Zero)
	}

	availableDot := "🟢"
	if available.IsNegative() {
		availableDot = "🔴"
	}

	var sb strings.Builder
	sb.WriteString("📊 <b>Resumen del mes</b>\n\n")
	sb.WriteString(fmt.Sprintf("💰 Ingresos: <b>%s</b>\n", formatARS(summary.Income)))
	sb.WriteString(fmt.Sprintf("💸 Gastos: <b>%s</b>\n", formatARS(summary.Expenses)))
	sb.WriteString(fmt.Sprintf("🏦 Ahorros: <b>%s</b>\n", formatARS(summary.Savings)))
	sb.WriteString(fmt.Sprintf("%s Disponible: <b>%s</b>\n\n", availableDot, formatARS(available)))
	sb.WriteString(fmt.Sprintf("📅 Quedan %d días\n", remaining))
	sb.WriteString(fmt.Sprintf("💵 Presupuesto diario: <b>%s</b>/día\n", formatARS(daily)))

	if top := topExpenseCategories(summary.ByCategory, 3); len(top) > 0 {
		sb.WriteString("\n📈 <b>Top gastos:</b>\n")
		for _, entry := range top {
			sb.WriteString(fmt.Sprintf("  • %s: %s\n", models.CategoryLabel(entry.category), formatARS(entry.amount)))
		}
	}

	sb.WriteString(fmt.Sprintf("\n📝 %d transacciones este mes", summary.Count))
	return sb.String()
}

type categoryAmount struct {
	category string
	amount   decimal.Decimal
}

// topExpenseCategories returns the n largest expense categories,
// biggest first.
func topExpenseCategories(byCategory map[string]decimal.Decimal, n int) []categoryAmount {
	entries := make([]categoryAmount, 0, len(byCategory))
	for category, amount := range byCategory {
		entries = append(entries, categoryAmount{category: category, amount: amount})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].amount.Equal(entries[j].amount) {
			return entries[i].category < entries[j].category
		}
		return entries[i].amount.GreaterThan(entries[j].amount)
	})

	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

// handleCategorias handles /categorias: the built-in catalog plus the
// owner's custom categories.
func (b *Bot) handleCategorias(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleCategoriasCore(ctx, tgBot, update)
}

// handleCategoriasCore is the testable implementation of handleCategorias.
func (b *Bot) handleCategoriasCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	ownerID := ownerIDFromContext(ctx)

	custom := map[models.TransactionType][]string{}
	categories, err := b.categories.GetByOwner(ctx, ownerID)
	if err != nil {
		logger.Log.Warn().
			Err(err).
			Str("owner_hash", logger.HashOwnerID(ownerID)).
			Msg("Failed to fetch custom categories, listing built-ins only")
	} else {
		for _, cat := range categories {
			custom[cat.Type] = append(custom[cat.Type], cat.Label)
		}
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Categorías</b>\n\n")
	writeCategoryGroup(&sb, "💸 Gastos", models.BuiltinExpenseCategories, custom[models.TypeExpense])
	sb.WriteString("\n")
	writeCategoryGroup(&sb, "💰 Ingresos", models.BuiltinIncomeCategories, custom[models.TypeIncome])
	sb.WriteString("\n")
	writeCategoryGroup(&sb, "🏦 Ahorros", models.BuiltinSavingsCategories, custom[models.TypeSavings])
	sb.WriteString("\n<b>Aliases:</b> super, nafta, gym, padel, uber, bondi, bar, luz, gas, agua")
	sb.WriteString("\n\n<b>💵 USD:</b> <code>100usd super</code> o <code>100usd tarjeta netflix</code>")

	_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      sb.String(),
		ParseMode: tgmodels.ParseModeHTML,
	})
}

// writeCategoryGroup renders one category section, custom entries last.
func writeCategoryGroup(sb *strings.Builder, title string, builtin, custom []string) {
	sb.WriteString(fmt.Sprintf("<b>%s:</b>\n", title))
	for _, label := range builtin {
		sb.WriteString("• " + escapeHTML(label) + "\n")
	}
	for _, label := range custom {
		sb.WriteString("• <i>" + escapeHTML(label) + " (custom)</i>\n")
	}
}

// handleEliminar handles /eliminar: stages the deletion of the most
// recent transaction of the current month for confirmation.
func (b *Bot) handleEliminar(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleEliminarCore(ctx, tgBot, update)
}

// handleEliminarCore is the testable implementation of handleEliminar.
func (b *Bot) handleEliminarCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID
	ownerID := ownerIDFromContext(ctx)

	latest, err := b.transactions.LatestByPeriod(ctx, ownerID, models.PeriodKey(b.now()))
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("owner_hash", logger.HashOwnerID(ownerID)).
			Msg("Failed to fetch latest transaction")
		_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ No pude buscar la última transacción. Intentá de nuevo.",
		})
		return
	}
	if latest == nil {
		_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ No hay transacciones este mes.",
		})
		return
	}

	err = b.pending.Put(ctx, &models.PendingAction{
		ChatID:        chatID,
		Action:        models.PendingDelete,
		TransactionID: latest.ID,
	}, b.cfg.PendingTTL)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Failed to stage delete confirmation")
		return
	}

	text := fmt.Sprintf("🗑 <b>¿Eliminar?</b>\n\n%s %s\n💵 %s\n📁 %s\n📝 %s",
		typeEmoji[latest.Type],
		typeLabel[latest.Type],
		formatARS(latest.Amount),
		escapeHTML(models.CategoryLabel(latest.Category)),
		escapeHTML(latest.Description))

	_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ParseMode:   tgmodels.ParseModeHTML,
		ReplyMarkup: confirmationKeyboard("✅ Sí, eliminar", "delete_confirm", "❌ Cancelar", "delete_cancel"),
	})
}

// handleTransactionMessage parses free text (or /gasto, /ingreso,
// /ahorro) into a draft and stages it for confirmation.
func (b *Bot) handleTransactionMessage(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	b.handleTransactionMessageCore(ctx, tgBot, update)
}

// handleTransactionMessageCore is the testable implementation of
// handleTransactionMessage.
func (b *Bot) handleTransactionMessageCore(ctx context.Context, tg TelegramAPI, update *tgmodels.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}
	chatID := update.Message.Chat.ID
	ownerID := ownerIDFromContext(ctx)

	draft, err := b.parser.Parse(ctx, update.Message.Text, ownerID)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
				ChatID: chatID,
				Text:   "❌ " + parseErr.Message,
			})
			return
		}
		logger.Log.Error().
			Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Unexpected parse failure")
		return
	}
	if draft == nil {
		_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    chatID,
			Text:      parseFailureText,
			ParseMode: tgmodels.ParseModeHTML,
		})
		return
	}

	now := b.now()
	err = b.pending.Put(ctx, &models.PendingAction{
		ChatID: chatID,
		Action: models.PendingCreate,
		Transaction: &models.Transaction{
			OwnerID:               ownerID,
			Type:                  draft.Type,
			Amount:                draft.Amount,
			Category:              draft.Category,
			Description:           draft.Description,
			Date:                  now,
			PeriodKey:             models.PeriodKey(now),
			Installments:          0,
			InstallmentsRemaining: 0,
			Source:                models.TransactionSourceTelegram,
		},
		USDInfo: draft.USDInfo,
	}, b.cfg.PendingTTL)
	if err != nil {
		logger.Log.Error().
			Err(err).
			Str("chat_hash", logger.HashChatID(chatID)).
			Msg("Failed to stage create confirmation")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s <b>¿Confirmar %s?</b>\n\n", typeEmoji[draft.Type], strings.ToLower(typeLabel[draft.Type])))
	sb.WriteString(fmt.Sprintf("💵 Monto: <b>%s</b>\n", formatARS(draft.Amount)))
	if draft.USDInfo != nil {
		sb.WriteString(fmt.Sprintf("💲 USD %s (%s @ $%s)\n",
			draft.USDInfo.USDAmount.String(),
			draft.USDInfo.DolarType,
			draft.USDInfo.Rate.String()))
	}
	sb.WriteString(fmt.Sprintf("📁 %s\n", escapeHTML(models.CategoryLabel(draft.Category))))
	sb.WriteString("📝 " + escapeHTML(draft.Description))

	_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        sb.String(),
		ParseMode:   tgmodels.ParseModeHTML,
		ReplyMarkup: confirmationKeyboard("✅ Confirmar", "tx_confirm", "❌ Cancelar", "tx_cancel"),
	})
}

// confirmationKeyboard builds a one-row yes/no inline keyboard.
func confirmationKeyboard(confirmText, confirmData, cancelText, cancelData string) *tgmodels.InlineKeyboardMarkup {
	return &tgmodels.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgmodels.InlineKeyboardButton{
			{
				{Text: confirmText, CallbackData: confirmData},
				{Text: cancelText, CallbackData: cancelData},
			},
		},
	}
}
