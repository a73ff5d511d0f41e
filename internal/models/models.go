// Package models defines the domain entities for the finance bot.
package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a transaction.
type TransactionType string

// Transaction types.
const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
	TypeSavings TransactionType = "savings"
)

// TransactionSourceTelegram tags transactions created via the bot.
const TransactionSourceTelegram = "telegram"

// PeriodKeyLayout is the time layout for the monthly bucket ("YYYY-MM").
const PeriodKeyLayout = "2006-01"

// categoryTypeOverrides lists the categories that are not expenses.
// Every slug absent from this map is an expense category.
var categoryTypeOverrides = map[string]TransactionType{
	"salario":        TypeIncome,
	"freelance":      TypeIncome,
	"otros-ingresos": TypeIncome,
	"ahorros":        TypeSavings,
	"inversiones":    TypeSavings,
}

// CategoryTypeFor returns the transaction type implied by a category slug.
func CategoryTypeFor(slug string) TransactionType {
	if t, ok := categoryTypeOverrides[slug]; ok {
		return t
	}
	return TypeExpense
}

// CategoryLabel humanizes a category slug: "tarjeta-credito" -> "Tarjeta Credito".
func CategoryLabel(slug string) string {
	words := strings.Split(strings.ReplaceAll(slug, "-", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// PeriodKey returns the monthly bucket for a point in time.
func PeriodKey(t time.Time) string {
	return t.Format(PeriodKeyLayout)
}

// BuiltinExpenseCategories are the fixed expense category labels.
var BuiltinExpenseCategories = []string{
	"Actividad física",
	"Alquiler",
	"Celulares",
	"Círculo",
	"Combustible",
	"Comida",
	"Compras",
	"Dibujo",
	"Disney+",
	"Educación",
	"Hobbies",
	"Internet",
	"Netflix",
	"Otros gastos",
	"Préstamos",
	"Regalos",
	"Salidas",
	"Salud",
	"Servicios",
	"Spotify",
	"Supermercado",
	"Tarjeta de crédito",
	"Transferencias",
	"Transporte",
	"YouTube Premium",
}

// BuiltinIncomeCategories are the fixed income category labels.
var BuiltinIncomeCategories = []string{"Freelance", "Otros ingresos", "Salario"}

// BuiltinSavingsCategories are the fixed savings category labels.
var BuiltinSavingsCategories = []string{"Ahorros", "Inversiones"}

// LinkedAccount maps a Telegram chat to a tracker account.
type LinkedAccount struct {
	ChatID   int64
	OwnerID  string
	LinkedAt time.Time
}

// CustomCategory is a user-defined category, owned by the web app.
// The bot only reads these.
type CustomCategory struct {
	ID        int
	OwnerID   string
	Label     string
	Value     string
	Type      TransactionType
	CreatedAt time.Time
}

// USDInfo carries the conversion details of a transaction entered in USD.
type USDInfo struct {
	USDAmount decimal.Decimal `json:"usdAmount"`
	DolarType string          `json:"dolarType"`
	Rate      decimal.Decimal `json:"rate"`
	ARSAmount decimal.Decimal `json:"arsAmount"`
}

// TransactionDraft is what the parser produces. It is ephemeral: either
// promoted into a PendingAction or discarded.
type TransactionDraft struct {
	Type        TransactionType
	Amount      decimal.Decimal
	Category    string
	Description string
	USDInfo     *USDInfo
}

// Transaction is the persisted record shape.
type Transaction struct {
	ID                    int             `json:"id,omitempty"`
	OwnerID               string          `json:"ownerId"`
	Type                  TransactionType `json:"type"`
	Amount                decimal.Decimal `json:"amount"`
	Category              string          `json:"category"`
	Description           string          `json:"description"`
	Date                  time.Time       `json:"date"`
	PeriodKey             string          `json:"periodKey"`
	Installments          int             `json:"installments"`
	InstallmentsRemaining int             `json:"installmentsRemaining"`
	Source                string          `json:"source"`
}

// PendingActionKind distinguishes what a pending action will do on confirm.
type PendingActionKind string

// Pending action kinds.
const (
	PendingCreate PendingActionKind = "create"
	PendingDelete PendingActionKind = "delete"
)

// PendingAction is the single confirmation slot for a chat. At most one
// exists per chat; a new put overwrites the previous one.
type PendingAction struct {
	ChatID        int64             `json:"chatId"`
	Action        PendingActionKind `json:"action"`
	Transaction   *Transaction      `json:"transaction,omitempty"`
	USDInfo       *USDInfo          `json:"usdInfo,omitempty"`
	TransactionID int               `json:"transactionId,omitempty"`
	ExpiresAt     time.Time         `json:"expiresAt"`
}

// Expired reports whether the action's TTL has passed.
func (p *PendingAction) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// PeriodSummary aggregates a month of transactions for one owner.
type PeriodSummary struct {
	Income     decimal.Decimal
	Expenses   decimal.Decimal
	Savings    decimal.Decimal
	ByCategory map[string]decimal.Decimal
	Count      int
}

// Available returns income minus expenses and savings.
func (s *PeriodSummary) Available() decimal.Decimal {
	return s.Income.Sub(s.Expenses).Sub(s.Savings)
}
