package bot

import (
	"context"
	"testing"
	"time"

	"github.com/pagatodo/finanzas-bot/internal/config"
	"github.com/pagatodo/finanzas-bot/internal/exchange"
	"github.com/pagatodo/finanzas-bot/internal/models"
	"github.com/pagatodo/finanzas-bot/internal/repository"
	"github.com/shopspring/decimal"
)

// testNow is the fixed clock used by test bots: 2026-03-10, so the
// current period is "2026-03" and 21 days of the month remain.
var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeAccountStore struct {
	linked    map[int64]string
	linkErr   error
	lookupErr error
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{linked: make(map[int64]string)}
}

func (f *fakeAccountStore) Link(_ context.Context, chatID int64, ownerID string) error {
	if f.linkErr != nil {
		return f.linkErr
	}
	f.linked[chatID] = ownerID
	return nil
}

func (f *fakeAccountStore) OwnerID(_ context.Context, chatID int64) (string, error) {
	if f.lookupErr != nil {
		return "", f.lookupErr
	}
	return f.linked[chatID], nil
}

type fakeTransactionStore struct {
	created   []*models.Transaction
	createErr error

	latest    *models.Transaction
	latestErr error

	deleted   []int
	deleteErr error

	summary    *models.PeriodSummary
	summaryErr error
}

func (f *fakeTransactionStore) Create(_ context.Context, tx *models.Transaction) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, tx)
	return nil
}

func (f *fakeTransactionStore) LatestByPeriod(_ context.Context, _, _ string) (*models.Transaction, error) {
	return f.latest, f.latestErr
}

func (f *fakeTransactionStore) Delete(_ context.Context, id int) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeTransactionStore) SummaryByPeriod(_ context.Context, _, _ string) (*models.PeriodSummary, error) {
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	if f.summary != nil {
		return f.summary, nil
	}
	return &models.PeriodSummary{ByCategory: map[string]decimal.Decimal{}}, nil
}

type fakeCategorySource struct {
	categories []models.CustomCategory
	err        error
}

func (f *fakeCategorySource) GetByOwner(_ context.Context, _ string) ([]models.CustomCategory, error) {
	return f.categories, f.err
}

type fakeRateService struct {
	rates map[string]exchange.Rate
	err   error
	calls []string
}

func (f *fakeRateService) FetchRate(_ context.Context, marketType string) (exchange.Rate, error) {
	f.calls = append(f.calls, marketType)
	if f.err != nil {
		return exchange.Rate{}, f.err
	}
	rate, ok := f.rates[marketType]
	if !ok {
		rate = exchange.Rate{Venta: decimal.NewFromInt(1000), Nombre: "Cripto"}
	}
	return rate, nil
}

// testBot bundles a Bot wired entirely with in-memory fakes.
type testBot struct {
	bot          *Bot
	accounts     *fakeAccountStore
	transactions *fakeTransactionStore
	categories   *fakeCategorySource
	rates        *fakeRateService
	pending      *repository.MemoryPendingStore
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()

	accounts := newFakeAccountStore()
	transactions := &fakeTransactionStore{}
	categories := &fakeCategorySource{}
	rates := &fakeRateService{rates: map[string]exchange.Rate{
		"cripto":  {Venta: decimal.NewFromInt(1000), Nombre: "Cripto"},
		"blue":    {Venta: decimal.NewFromInt(1100), Nombre: "Blue"},
		"mep":     {Venta: decimal.NewFromInt(1050), Nombre: "Mep"},
		"tarjeta": {Venta: decimal.NewFromInt(1300), Nombre: "Tarjeta"},
	}}
	pending := repository.NewMemoryPendingStore()
	pending.Now = func() time.Time { return testNow }

	resolver := NewCategoryResolver(categories)

	b := &Bot{
		cfg: &config.Config{
			TelegramBotToken: "test-token",
			DatabaseURL:      "test-url",
			PendingTTL:       config.DefaultPendingTTL,
		},
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		pending:      pending,
		resolver:     resolver,
		parser:       NewTransactionParser(resolver, rates),
		now:          func() time.Time { return testNow },
	}

	return &testBot{
		bot:          b,
		accounts:     accounts,
		transactions: transactions,
		categories:   categories,
		rates:        rates,
		pending:      pending,
	}
}
