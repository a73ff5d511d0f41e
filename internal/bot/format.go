package bot

import (
	"strings"

	"github.com/pagatodo/finanzas-bot/internal/models"
	"github.com/shopspring/decimal"
)

// typeEmoji and typeLabel drive the confirmation and summary copy.
var typeEmoji = map[models.TransactionType]string{
	models.TypeIncome:  "💰",
	models.TypeExpense: "💸",
	models.TypeSavings: "🏦",
}

var typeLabel = map[models.TransactionType]string{
	models.TypeIncome:  "Ingreso",
	models.TypeExpense: "Gasto",
	models.TypeSavings: "Ahorro",
}

// formatARS renders an amount the way es-AR currency formatting does:
// "$ 1.234.567", no decimals, sign before the symbol.
func formatARS(amount decimal.Decimal) string {
	rounded := amount.Round(0)

	negative := rounded.IsNegative()
	digits := rounded.Abs().String()

	var sb strings.Builder
	if negative {
		sb.WriteString("-")
	}
	sb.WriteString("$ ")

	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(d)
	}
	return sb.String()
}

// escapeHTML escapes the characters Telegram's HTML parse mode treats
// specially.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
