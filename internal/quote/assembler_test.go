package quote

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotewise/quote-cli/internal/config"
	"github.com/quotewise/quote-cli/internal/inventory"
	"github.com/quotewise/quote-cli/internal/model"
	"github.com/quotewise/quote-cli/internal/pricing"
	"github.com/quotewise/quote-cli/internal/store"
)

func testPolicy() config.PolicyConfig {
	return config.PolicyConfig{
		HighInventoryMultiple:    3.0,
		HighInventoryDiscountPct: -15.0,
		BulkOrderThreshold:       25,
		BulkOrderDiscountPct:     -12.5,
		EventAdjustmentPct:       5.0,
		MaxDiscountFloorPct:      -50.0,
		RiskMaxDiscountPct:       25.0,
	}
}

func newAssembler(t *testing.T) (*Assembler, store.Store) {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "quotes.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })

	lookup := inventory.NewLookup(s, inventory.Matcher{Threshold: 0.4})
	a := NewAssembler(lookup, pricing.NewEngine(testPolicy()), s, 4, testPolicy().RiskMaxDiscountPct)
	return a, s
}

func seedCatalog(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.SaveProduct(ctx, model.InventoryRecord{
		ProductName:  "Trail Backpack",
		Category:     "Sports & Outdoors",
		StockLevel:   405,
		ReorderPoint: 135,
		BasePrice:    273.84,
	}))
	require.NoError(t, s.SetCompetitorPrices(ctx, "Trail Backpack",
		model.CompetitorPriceSet{"SmartBuy": 265.00, "ClicKart": 279.90}))
	require.NoError(t, s.SaveProduct(ctx, model.InventoryRecord{
		ProductName:  "Desk Lamp",
		Category:     "Home & Living",
		StockLevel:   120,
		ReorderPoint: 60,
		BasePrice:    19.99,
	}))
}

func TestAssemble(t *testing.T) {
	a, s := newAssembler(t)
	seedCatalog(t, s)

	req := model.QuoteRequest{
		Customer: "Greenfield Retail",
		Items: []model.LineItemRequest{
			{ProductName: "Trail Backpack", QuantityRequested: 90},
			{ProductName: "Quantum Widget", QuantityRequested: 1},
			{ProductName: "Desk Lamp", QuantityRequested: 2},
		},
	}

	q, err := a.Assemble(context.Background(), req, nil)
	require.NoError(t, err)
	require.Len(t, q.Decisions, 3)

	// Output order equals request order.
	assert.Equal(t, "Trail Backpack", q.Decisions[0].ProductName)
	assert.Equal(t, "Quantum Widget", q.Decisions[1].ProductName)
	assert.Equal(t, "Desk Lamp", q.Decisions[2].ProductName)

	// High inventory and bulk order stack on the backpack.
	backpack := q.Decisions[0]
	require.True(t, backpack.ApprovedForQuote)
	require.NotNil(t, backpack.TotalPrice)
	assert.Equal(t, 198.53, *backpack.FinalSingleUnitPrice)
	assert.Equal(t, 17868.06, *backpack.TotalPrice)
	assert.Equal(t, 265.00, backpack.Competitors["SmartBuy"])

	assert.False(t, q.Decisions[1].ApprovedForQuote)
	assert.Equal(t, "Product 'Quantum Widget' not found in inventory.", q.Decisions[1].Status)

	lamp := q.Decisions[2]
	require.True(t, lamp.ApprovedForQuote)
	assert.Equal(t, 19.99, *lamp.FinalSingleUnitPrice)

	// Subtotal covers approved items only.
	require.NotNil(t, q.Subtotal)
	assert.InDelta(t, 17868.06+39.98, *q.Subtotal, 0.001)

	// Risk is graded per item, in the same order.
	require.Len(t, q.Risk, 3)
	assert.Equal(t, model.RiskHigh, q.Risk[0].Level)
	assert.Equal(t, model.RiskLow, q.Risk[1].Level)
	assert.Equal(t, model.RiskLow, q.Risk[2].Level)

	// Quotation was persisted with an assigned ID.
	require.NotEmpty(t, q.ID)
	saved, err := s.GetQuotation(context.Background(), q.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Greenfield Retail", saved.Customer)
	assert.Len(t, saved.Decisions, 3)
}

func TestAssemble_AllRejectedHasNilSubtotal(t *testing.T) {
	a, _ := newAssembler(t)

	req := model.QuoteRequest{Items: []model.LineItemRequest{
		{ProductName: "Quantum Widget", QuantityRequested: 1},
	}}
	q, err := a.Assemble(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Nil(t, q.Subtotal)
}

func TestAssemble_EventsAttached(t *testing.T) {
	a, s := newAssembler(t)
	seedCatalog(t, s)

	events := []model.QualifiedEvent{{
		MarketEvent: model.MarketEvent{
			Name:     "Diwali",
			Category: model.EventReligiousFestival,
		},
		DaysRemaining: 19,
	}}
	req := model.QuoteRequest{Items: []model.LineItemRequest{
		{ProductName: "Desk Lamp", QuantityRequested: 2},
	}}

	q, err := a.Assemble(context.Background(), req, events)
	require.NoError(t, err)
	require.Len(t, q.Events, 1)
	assert.Equal(t, "Diwali", q.Events[0].Name)

	// The demand surcharge shows up in the decision.
	lamp := q.Decisions[0]
	require.True(t, lamp.ApprovedForQuote)
	assert.Equal(t, 5.0, *lamp.NetPriceAdjustmentPercentage)
	assert.Equal(t, 20.99, *lamp.FinalSingleUnitPrice)
}
