// Package exchange fetches USD/ARS quotes from the dolarapi.com API.
package exchange

import (
	"context"

	"github.com/shopspring/decimal"
)

// Rate is a sell-side quote for one dollar market.
type Rate struct {
	Venta  decimal.Decimal
	Nombre string
}

// Service fetches the current sell rate for a dollar market type.
type Service interface {
	FetchRate(ctx context.Context, marketType string) (Rate, error)
}
