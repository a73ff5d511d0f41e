package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultMarket is used when no market type is given or the given one
// is unknown.
const DefaultMarket = "cripto"

// marketEndpoints maps market types to dolarapi path segments. Note
// "mep" is exposed by the API as "bolsa".
var marketEndpoints = map[string]string{
	"cripto":  "cripto",
	"blue":    "blue",
	"mep":     "bolsa",
	"tarjeta": "tarjeta",
}

// KnownMarket reports whether the token is a recognized market type.
func KnownMarket(marketType string) bool {
	_, ok := marketEndpoints[marketType]
	return ok
}

var errVentaMissing = errors.New("venta rate missing in response")

// DolarAPIClient is a client for the dolarapi.com quotation API.
// Rates are fetched fresh on every call; a stale quote is worse than a
// slow one for money conversion.
type DolarAPIClient struct {
	baseURL    string
	httpClient *http.Client
}

type dolarAPIResponse struct {
	Venta  json.Number `json:"venta"`
	Compra json.Number `json:"compra"`
}

// NewDolarAPIClient creates a dolarapi.com client.
func NewDolarAPIClient(baseURL string, timeout time.Duration) *DolarAPIClient {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = "https://dolarapi.com"
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &DolarAPIClient{
		baseURL: trimmed,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// FetchRate fetches the sell rate for the given market type. Unknown
// market types fall back to the cripto market.
func (c *DolarAPIClient) FetchRate(ctx context.Context, marketType string) (Rate, error) {
	market := strings.ToLower(strings.TrimSpace(marketType))
	endpoint, ok := marketEndpoints[market]
	if !ok {
		market = DefaultMarket
		endpoint = marketEndpoints[DefaultMarket]
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/v1/dolares/%s", c.baseURL, endpoint),
		nil,
	)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to create quote request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Rate{}, fmt.Errorf("failed to request quote: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Rate{}, fmt.Errorf("quote API returned status %d", resp.StatusCode)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()

	var payload dolarAPIResponse
	if err := decoder.Decode(&payload); err != nil {
		return Rate{}, fmt.Errorf("failed to decode quote response: %w", err)
	}

	if payload.Venta == "" {
		return Rate{}, errVentaMissing
	}

	venta, err := decimal.NewFromString(payload.Venta.String())
	if err != nil {
		return Rate{}, fmt.Errorf("failed to parse venta rate: %w", err)
	}
	if !venta.IsPositive() {
		return Rate{}, errors.New("venta rate must be positive")
	}

	return Rate{
		Venta:  venta,
		Nombre: capitalize(market),
	}, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
