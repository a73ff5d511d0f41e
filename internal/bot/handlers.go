package bot

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

const helpText = `🤖 <b>PagaTodo Bot</b>

<b>⚡ Rápido (asume gasto):</b>
<code>5000 super coto</code>
<code>2000 nafta ypf</code>

<b>💵 En USD:</b>
<code>100usd super coto</code> (cripto)
<code>100usd blue super coto</code>
<code>50usd tarjeta netflix</code>

<b>📝 Explícito:</b>
<code>/gasto 5000 super coto</code>
<code>/ingreso 3000 salario mes</code>
<code>/ahorro 1000 ahorros fondo</code>

<b>📊 Comandos:</b>
/resumen — Resumen del mes
/categorias — Ver categorías
/eliminar — Eliminar última
/vincular — Vincular cuenta
/help — Esta ayuda

<b>Dólares:</b> cripto (default), blue, mep, tarjeta`

const parseFailureText = `❌ No pude entender eso.

Formato: <code>5000 super coto</code>
USD: <code>100usd super coto</code>

/help para ver comandos.`

// handleHelp handles the /start and /help commands. Allowed unlinked.
func (b *Bot) handleHelp(ctx context.Context, tgBot *bot.Bot, update *models.Update) {
	b.handleHelpCore(ctx, tgBot, update)
}

// handleHelpCore is the testable implementation of handleHelp.
func (b *Bot) handleHelpCore(ctx context.Context, tg TelegramAPI, update *models.Update) {
	if update.Message == nil {
		return
	}

	_, _ = tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      helpText,
		ParseMode: models.ParseModeHTML,
	})
}
