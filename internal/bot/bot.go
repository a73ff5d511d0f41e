// Package bot provides the Telegram bot initialization and handlers.
package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	tgmodels "github.com/go-telegram/bot/models"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pagatodo/finanzas-bot/internal/config"
	"github.com/pagatodo/finanzas-bot/internal/exchange"
	"github.com/pagatodo/finanzas-bot/internal/logger"
	"github.com/pagatodo/finanzas-bot/internal/models"
	"github.com/pagatodo/finanzas-bot/internal/repository"
)

// AccountStore links chats to tracker accounts.
type AccountStore interface {
	Link(ctx context.Context, chatID int64, ownerID string) error
	OwnerID(ctx context.Context, chatID int64) (string, error)
}

// TransactionStore persists and queries transactions. This is the
// external collaborator the confirmation flow writes to.
type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	LatestByPeriod(ctx context.Context, ownerID, periodKey string) (*models.Transaction, error)
	Delete(ctx context.Context, id int) error
	SummaryByPeriod(ctx context.Context, ownerID, periodKey string) (*models.PeriodSummary, error)
}

// PendingStore is the per-chat confirmation slot.
type PendingStore interface {
	Put(ctx context.Context, action *models.PendingAction, ttl time.Duration) error
	Get(ctx context.Context, chatID int64) (*models.PendingAction, error)
	Clear(ctx context.Context, chatID int64) error
}

// Compile-time checks that the repositories satisfy the store interfaces.
var (
	_ AccountStore     = (*repository.AccountRepository)(nil)
	_ TransactionStore = (*repository.TransactionRepository)(nil)
	_ PendingStore     = (*repository.PendingRepository)(nil)
	_ PendingStore     = (*repository.MemoryPendingStore)(nil)
)

// Bot wraps the Telegram bot with application dependencies.
type Bot struct {
	bot          *bot.Bot
	cfg          *config.Config
	accounts     AccountStore
	categories   CustomCategorySource
	transactions TransactionStore
	pending      PendingStore
	parser       *TransactionParser
	resolver     *CategoryResolver

	// now is injectable for expiry tests.
	now func() time.Time
}

// New creates a new Bot instance.
func New(cfg *config.Config, pool *pgxpool.Pool) (*Bot, error) {
	categoryRepo := repository.NewCategoryRepository(pool)
	resolver := NewCategoryResolver(categoryRepo)
	// Quotes are fetched fresh on every parse. A stale quote silently
	// changes the ARS amount the user confirms, so nothing caches here.
	rates := exchange.NewDolarAPIClient(cfg.DolarAPIBaseURL, cfg.ExchangeTimeout)

	b := &Bot{
		cfg:          cfg,
		accounts:     repository.NewAccountRepository(pool),
		categories:   categoryRepo,
		transactions: repository.NewTransactionRepository(pool),
		pending:      repository.NewPendingRepository(pool),
		resolver:     resolver,
		parser:       NewTransactionParser(resolver, rates),
		now:          time.Now,
	}

	opts := []bot.Option{
		bot.WithMiddlewares(b.recoverMiddleware, b.linkGateMiddleware),
		bot.WithDefaultHandler(b.defaultHandler),
	}

	telegramBot, err := bot.New(cfg.TelegramBotToken, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b.bot = telegramBot
	b.registerHandlers()

	return b, nil
}

// Start begins polling for updates.
func (b *Bot) Start(ctx context.Context) {
	logger.Log.Info().Msg("Bot started polling")
	b.bot.Start(ctx)
}

// StartWebhook registers the webhook with Telegram and processes
// updates delivered to WebhookHandler.
func (b *Bot) StartWebhook(ctx context.Context) error {
	if _, err := b.bot.SetWebhook(ctx, &bot.SetWebhookParams{URL: b.cfg.WebhookURL}); err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}
	logger.Log.Info().Str("url", b.cfg.WebhookURL).Msg("Bot started in webhook mode")
	b.bot.StartWebhook(ctx)
	return nil
}

// WebhookHandler returns the HTTP handler that accepts Telegram
// updates. It always acknowledges with 200 so Telegram does not retry
// the same update indefinitely.
func (b *Bot) WebhookHandler() http.Handler {
	return b.bot.WebhookHandler()
}

// registerHandlers sets up command and callback handlers.
func (b *Bot) registerHandlers() {
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, b.handleHelp)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypePrefix, b.handleHelp)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/vincular", bot.MatchTypePrefix, b.handleVincular)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/resumen", bot.MatchTypePrefix, b.handleResumen)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/categorias", bot.MatchTypePrefix, b.handleCategorias)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/eliminar", bot.MatchTypePrefix, b.handleEliminar)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/gasto", bot.MatchTypePrefix, b.handleTransactionMessage)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ingreso", bot.MatchTypePrefix, b.handleTransactionMessage)
	b.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ahorro", bot.MatchTypePrefix, b.handleTransactionMessage)
	b.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "tx_", bot.MatchTypePrefix, b.handleConfirmationCallback)
	b.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "delete_", bot.MatchTypePrefix, b.handleConfirmationCallback)
}

// ownerIDKey carries the linked account through the handler context.
type ownerIDKey struct{}

// ownerIDFromContext returns the linked account set by the gate
// middleware, or "" when the update was exempt from linking.
func ownerIDFromContext(ctx context.Context) string {
	ownerID, _ := ctx.Value(ownerIDKey{}).(string)
	return ownerID
}

// withOwnerID stores the linked account in the context.
func withOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey{}, ownerID)
}

// recoverMiddleware converts handler panics into logged errors.
// The transport contract is "always acknowledge": an internal failure
// must never become a transport-level error that triggers redelivery.
func (b *Bot) recoverMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error().
					Any("panic", r).
					Int64("update_id", update.ID).
					Msg("Recovered from handler panic")
			}
		}()
		next(ctx, tgBot, update)
	}
}

// linkGateMiddleware enforces the account-linking prerequisite.
// /start, /help and /vincular work unlinked; callbacks pass through
// (their pending action was staged by a linked chat); everything else
// gets a prompt to link.
func (b *Bot) linkGateMiddleware(next bot.HandlerFunc) bot.HandlerFunc {
	return func(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
		chatID := extractChatID(update)
		if chatID == 0 {
			return
		}

		logUserInput(chatID, update)

		if update.CallbackQuery != nil || isLinkExempt(update) {
			next(ctx, tgBot, update)
			return
		}

		ownerID, err := b.accounts.OwnerID(ctx, chatID)
		if err != nil {
			logger.Log.Error().
				Err(err).
				Str("chat_hash", logger.HashChatID(chatID)).
				Msg("Failed to look up linked account")
			return
		}

		if ownerID == "" {
			_, _ = tgBot.SendMessage(ctx, &bot.SendMessageParams{
				ChatID:    chatID,
				Text:      "🔒 Cuenta no vinculada.\n<code>/vincular TU_UID</code>",
				ParseMode: tgmodels.ParseModeHTML,
			})
			return
		}

		next(withOwnerID(ctx, ownerID), tgBot, update)
	}
}

// isLinkExempt reports whether the update may be handled without a
// linked account.
func isLinkExempt(update *tgmodels.Update) bool {
	if update.Message == nil {
		return false
	}
	text := update.Message.Text
	for _, cmd := range []string{"/start", "/help", "/vincular"} {
		if text == cmd || hasCommandPrefix(text, cmd) {
			return true
		}
	}
	return false
}

// hasCommandPrefix matches "/cmd ..." and "/cmd@botname ...".
func hasCommandPrefix(text, cmd string) bool {
	if len(text) <= len(cmd) {
		return false
	}
	if text[:len(cmd)] != cmd {
		return false
	}
	rest := text[len(cmd)]
	return rest == ' ' || rest == '@'
}

// logUserInput logs the inbound update with redacted content.
func logUserInput(chatID int64, update *tgmodels.Update) {
	switch {
	case update.Message != nil:
		logger.Log.Info().
			Str("chat_hash", logger.HashChatID(chatID)).
			Str("text", logger.SanitizeText(update.Message.Text)).
			Msg("User input")
	case update.CallbackQuery != nil:
		logger.Log.Info().
			Str("chat_hash", logger.HashChatID(chatID)).
			Str("data", update.CallbackQuery.Data).
			Msg("Callback query")
	}
}

// extractChatID gets the chat ID from the supported update types.
func extractChatID(update *tgmodels.Update) int64 {
	if update.Message != nil {
		return update.Message.Chat.ID
	}
	if update.CallbackQuery != nil && update.CallbackQuery.Message.Message != nil {
		return update.CallbackQuery.Message.Message.Chat.ID
	}
	return 0
}

// defaultHandler routes free-text messages into the transaction parser.
func (b *Bot) defaultHandler(ctx context.Context, tgBot *bot.Bot, update *tgmodels.Update) {
	if update.CallbackQuery != nil {
		// Unknown callback data; acknowledge so the button stops spinning.
		_, _ = tgBot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
		return
	}
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	b.handleTransactionMessage(ctx, tgBot, update)
}
