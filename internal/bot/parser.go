package bot

import (
	"context"
	"regexp"
	"strings"

	"github.com/pagatodo/finanzas-bot/internal/exchange"
	"github.com/pagatodo/finanzas-bot/internal/models"
	"github.com/shopspring/decimal"
)

// usdAmountRegex matches an amount with a currency marker glued to it,
// like "100usd", "50.5dolares" or "20dol".
var usdAmountRegex = regexp.MustCompile(`^(?i)(\d+(?:\.\d+)?)(usd|dolares|dolar|dol)$`)

const quoteUnavailableMsg = "No pude obtener la cotización del dólar. Intentá de nuevo."

// ParseError is a recoverable, user-facing parse failure. The only
// producer is the exchange-rate fetch; everything else that cannot be
// parsed yields a nil draft instead.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return e.Message
}

// TransactionParser turns a free-text message into a transaction draft.
type TransactionParser struct {
	resolver *CategoryResolver
	rates    exchange.Service
}

// NewTransactionParser creates a parser using the given resolver and
// rate service.
func NewTransactionParser(resolver *CategoryResolver, rates exchange.Service) *TransactionParser {
	return &TransactionParser{resolver: resolver, rates: rates}
}

// Parse converts raw text into a TransactionDraft.
//
// It returns (nil, nil) when the text does not describe a transaction,
// and (nil, *ParseError) when the dollar quote could not be fetched.
// Amounts entered in USD are converted to ARS at the sell rate of the
// requested market (cripto by default).
func (p *TransactionParser) Parse(ctx context.Context, rawText, ownerID string) (*models.TransactionDraft, error) {
	text := strings.TrimSpace(rawText)

	var explicitType models.TransactionType
	switch {
	case strings.HasPrefix(text, "/gasto "):
		explicitType = models.TypeExpense
		text = strings.TrimPrefix(text, "/gasto ")
	case strings.HasPrefix(text, "/ingreso "):
		explicitType = models.TypeIncome
		text = strings.TrimPrefix(text, "/ingreso ")
	case strings.HasPrefix(text, "/ahorro "):
		explicitType = models.TypeSavings
		text = strings.TrimPrefix(text, "/ahorro ")
	case startsWithDigit(text):
		// Quick-entry form: "5000 super coto" is an expense.
		explicitType = models.TypeExpense
	default:
		return nil, nil
	}

	parts := strings.Fields(text)
	if len(parts) < 2 {
		return nil, nil
	}

	if match := usdAmountRegex.FindStringSubmatch(parts[0]); match != nil {
		return p.parseUSD(ctx, explicitType, match[1], parts, ownerID)
	}

	amount, err := decimal.NewFromString(parts[0])
	if err != nil || !amount.IsPositive() {
		return nil, nil
	}

	resolved := p.resolver.Resolve(ctx, parts[1], ownerID)
	return &models.TransactionDraft{
		Type:        draftType(explicitType, resolved.Type),
		Amount:      amount,
		Category:    resolved.Category,
		Description: descriptionOrLabel(parts[2:], resolved.Category),
	}, nil
}

// parseUSD handles the "100usd [market] category [description...]" form.
func (p *TransactionParser) parseUSD(
	ctx context.Context,
	explicitType models.TransactionType,
	amountStr string,
	parts []string,
	ownerID string,
) (*models.TransactionDraft, error) {
	usdAmount, err := decimal.NewFromString(amountStr)
	if err != nil || !usdAmount.IsPositive() {
		return nil, nil
	}

	dolarType := exchange.DefaultMarket
	catStart := 1
	if len(parts) >= 3 && exchange.KnownMarket(strings.ToLower(parts[1])) {
		dolarType = strings.ToLower(parts[1])
		catStart = 2
	}

	if len(parts) <= catStart {
		return nil, nil
	}

	rate, err := p.rates.FetchRate(ctx, dolarType)
	if err != nil {
		return nil, &ParseError{Message: quoteUnavailableMsg}
	}

	arsAmount := usdAmount.Mul(rate.Venta).Round(0)
	resolved := p.resolver.Resolve(ctx, parts[catStart], ownerID)

	return &models.TransactionDraft{
		Type:        draftType(explicitType, resolved.Type),
		Amount:      arsAmount,
		Category:    resolved.Category,
		Description: descriptionOrLabel(parts[catStart+1:], resolved.Category),
		USDInfo: &models.USDInfo{
			USDAmount: usdAmount,
			DolarType: dolarType,
			Rate:      rate.Venta,
			ARSAmount: arsAmount,
		},
	}, nil
}

// draftType prefers the explicit command type over the category's
// implied one.
func draftType(explicit, implied models.TransactionType) models.TransactionType {
	if explicit != "" {
		return explicit
	}
	return implied
}

// descriptionOrLabel joins the remaining tokens, falling back to the
// humanized category label when nothing is left.
func descriptionOrLabel(rest []string, category string) string {
	if len(rest) > 0 {
		return strings.Join(rest, " ")
	}
	return models.CategoryLabel(category)
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
