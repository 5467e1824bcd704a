package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotewise/quote-cli/internal/config"
	"github.com/quotewise/quote-cli/internal/model"
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

func ptrVal(t *testing.T, p *float64) float64 {
	t.Helper()
	require.NotNil(t, p)
	return *p
}

func TestDecide_NotFound(t *testing.T) {
	e := NewEngine(testPolicy())
	item := model.LineItemRequest{ProductName: "Acme Grill", QuantityRequested: 2}

	d := e.Decide(item, nil, nil, nil)

	assert.False(t, d.ApprovedForQuote)
	assert.Equal(t, "Product 'Acme Grill' not found in inventory.", d.Status)
	assert.Nil(t, d.BaseSingleUnitPrice)
	assert.Nil(t, d.FinalSingleUnitPrice)
	assert.Nil(t, d.TotalPrice)
	assert.Nil(t, d.NetPriceAdjustmentPercentage)
	assert.Nil(t, d.Competitors)
	assert.Empty(t, d.ReasoningBreakdown)
}

func TestDecide_AttributeMismatch(t *testing.T) {
	e := NewEngine(testPolicy())
	item := model.LineItemRequest{
		ProductName:         "Classic Oxford Shirt",
		QuantityRequested:   10,
		RequestedAttributes: map[string]string{"color": "White"},
	}
	record := &model.InventoryRecord{
		ProductName:  "Classic Oxford Shirt",
		StockLevel:   100,
		ReorderPoint: 40,
		BasePrice:    49.99,
		AvailableAttributes: map[string][]string{
			"size":  {"Large"},
			"color": {"Black"},
		},
	}

	d := e.Decide(item, record, nil, nil)

	assert.False(t, d.ApprovedForQuote)
	assert.Equal(t,
		"Product 'Classic Oxford Shirt' is available in 'Large' size and 'Black' color, but not in the requested 'White'.",
		d.Status)
	assert.Nil(t, d.Competitors)
	assert.Empty(t, d.ReasoningBreakdown)
}

func TestDecide_AttributeMatchCaseInsensitive(t *testing.T) {
	e := NewEngine(testPolicy())
	item := model.LineItemRequest{
		ProductName:         "Classic Oxford Shirt",
		QuantityRequested:   1,
		RequestedAttributes: map[string]string{"Color": "black"},
	}
	record := &model.InventoryRecord{
		ProductName:         "Classic Oxford Shirt",
		StockLevel:          10,
		ReorderPoint:        40,
		BasePrice:           49.99,
		AvailableAttributes: map[string][]string{"color": {"Black"}},
	}

	d := e.Decide(item, record, nil, nil)
	assert.True(t, d.ApprovedForQuote)
	assert.Equal(t, model.StatusAvailable, d.Status)
}

func TestDecide_InsufficientStock(t *testing.T) {
	e := NewEngine(testPolicy())
	item := model.LineItemRequest{ProductName: "Desk Lamp", QuantityRequested: 90}
	record := &model.InventoryRecord{
		ProductName:  "Desk Lamp",
		StockLevel:   71,
		ReorderPoint: 30,
		BasePrice:    19.99,
	}

	d := e.Decide(item, record, model.CompetitorPriceSet{"SmartBuy": 18.49}, nil)

	assert.False(t, d.ApprovedForQuote)
	assert.Equal(t,
		"Product 'Desk Lamp' is available, but only 71 units are in stock. Requested quantity (90) exceeds available stock.",
		d.Status)
	assert.Nil(t, d.Competitors)
}

// Stock 405 against reorder point 135 trips the high-inventory tier, 90 units
// trips the bulk tier: net -27.5%, unit 198.53, total 17868.06.
func TestDecide_StackedDiscounts(t *testing.T) {
	e := NewEngine(testPolicy())
	item := model.LineItemRequest{ProductName: "Trail Backpack", QuantityRequested: 90}
	record := &model.InventoryRecord{
		ProductName:  "Trail Backpack",
		StockLevel:   405,
		ReorderPoint: 135,
		BasePrice:    273.84,
	}
	prices := model.CompetitorPriceSet{"SmartBuy": 265.00, "ClicKart": 279.90}

	d := e.Decide(item, record, prices, nil)

	require.True(t, d.ApprovedForQuote)
	assert.Equal(t, model.StatusAvailable, d.Status)
	assert.Equal(t, 273.84, ptrVal(t, d.BaseSingleUnitPrice))
	assert.Equal(t, 198.53, ptrVal(t, d.FinalSingleUnitPrice))
	assert.Equal(t, 17868.06, ptrVal(t, d.TotalPrice))
	assert.Equal(t, -27.5, ptrVal(t, d.NetPriceAdjustmentPercentage))

	require.Len(t, d.ReasoningBreakdown, 2)
	assert.Equal(t, "High Inventory Discount: Stock level (405) is high compared to reorder point.", d.ReasoningBreakdown[0])
	assert.Equal(t, "Bulk Order Discount: For ordering 90 units (25+).", d.ReasoningBreakdown[1])

	assert.Equal(t, prices, d.Competitors)
}

func TestDecide_NoDiscounts_BasePrice(t *testing.T) {
	e := NewEngine(testPolicy())
	item := model.LineItemRequest{ProductName: "Ceramic Mug", QuantityRequested: 4}
	record := &model.InventoryRecord{
		ProductName:  "Ceramic Mug",
		StockLevel:   50,
		ReorderPoint: 40,
		BasePrice:    12.50,
	}

	d := e.Decide(item, record, nil, nil)

	require.True(t, d.ApprovedForQuote)
	assert.Equal(t, 12.50, ptrVal(t, d.FinalSingleUnitPrice))
	assert.Equal(t, 50.00, ptrVal(t, d.TotalPrice))
	assert.Equal(t, 0.0, ptrVal(t, d.NetPriceAdjustmentPercentage))
	assert.Empty(t, d.ReasoningBreakdown)
	assert.Nil(t, d.Competitors)
}

func TestDecide_EventSurcharge(t *testing.T) {
	e := NewEngine(testPolicy())
	item := model.LineItemRequest{ProductName: "Gift Hamper", QuantityRequested: 5}
	record := &model.InventoryRecord{
		ProductName:  "Gift Hamper",
		StockLevel:   60,
		ReorderPoint: 50,
		BasePrice:    100.00,
	}
	events := []model.QualifiedEvent{{
		MarketEvent:   model.MarketEvent{Name: "Diwali", Category: model.EventReligiousFestival},
		DaysRemaining: 12,
	}}

	d := e.Decide(item, record, nil, events)

	require.True(t, d.ApprovedForQuote)
	assert.Equal(t, 105.00, ptrVal(t, d.FinalSingleUnitPrice))
	assert.Equal(t, 5.0, ptrVal(t, d.NetPriceAdjustmentPercentage))
	require.Len(t, d.ReasoningBreakdown, 1)
	assert.Equal(t, "Market Event Adjustment: 'Diwali' is 12 days away.", d.ReasoningBreakdown[0])
}

func TestDecide_ClampAtFloor(t *testing.T) {
	policy := testPolicy()
	policy.HighInventoryDiscountPct = -40
	policy.BulkOrderDiscountPct = -30
	e := NewEngine(policy)

	item := model.LineItemRequest{ProductName: "Clearance Jacket", QuantityRequested: 30}
	record := &model.InventoryRecord{
		ProductName:  "Clearance Jacket",
		StockLevel:   900,
		ReorderPoint: 100,
		BasePrice:    200.00,
	}

	d := e.Decide(item, record, nil, nil)

	require.True(t, d.ApprovedForQuote)
	// -70 clamped to -50.
	assert.Equal(t, -50.0, ptrVal(t, d.NetPriceAdjustmentPercentage))
	assert.Equal(t, 100.00, ptrVal(t, d.FinalSingleUnitPrice))
	require.Len(t, d.ReasoningBreakdown, 3)
	assert.Contains(t, d.ReasoningBreakdown[2], "Capped:")
}

func TestDecide_ZeroReorderPointNeverOverstocked(t *testing.T) {
	e := NewEngine(testPolicy())
	item := model.LineItemRequest{ProductName: "Sticker Pack", QuantityRequested: 1}
	record := &model.InventoryRecord{
		ProductName:  "Sticker Pack",
		StockLevel:   5000,
		ReorderPoint: 0,
		BasePrice:    1.25,
	}

	d := e.Decide(item, record, nil, nil)
	require.True(t, d.ApprovedForQuote)
	assert.Equal(t, 0.0, ptrVal(t, d.NetPriceAdjustmentPercentage))
}

// Approved decisions must satisfy the published arithmetic invariants.
func TestDecide_ArithmeticInvariants(t *testing.T) {
	e := NewEngine(testPolicy())
	records := []*model.InventoryRecord{
		{ProductName: "A", StockLevel: 500, ReorderPoint: 100, BasePrice: 37.13},
		{ProductName: "B", StockLevel: 40, ReorderPoint: 35, BasePrice: 999.99},
		{ProductName: "C", StockLevel: 26, ReorderPoint: 2, BasePrice: 5.55},
	}
	for _, rec := range records {
		item := model.LineItemRequest{ProductName: rec.ProductName, QuantityRequested: 26}
		d := e.Decide(item, rec, nil, nil)
		require.True(t, d.ApprovedForQuote, rec.ProductName)

		base := ptrVal(t, d.BaseSingleUnitPrice)
		netPct := ptrVal(t, d.NetPriceAdjustmentPercentage)
		unit := base * (1 + netPct/100)
		assert.InDelta(t, round2(unit), ptrVal(t, d.FinalSingleUnitPrice), 1e-9, rec.ProductName)
		assert.InDelta(t, round2(unit*float64(item.QuantityRequested)), ptrVal(t, d.TotalPrice), 1e-9, rec.ProductName)
	}
}

func TestDecide_Idempotent(t *testing.T) {
	e := NewEngine(testPolicy())
	item := model.LineItemRequest{ProductName: "Trail Backpack", QuantityRequested: 90}
	record := &model.InventoryRecord{
		ProductName:  "Trail Backpack",
		StockLevel:   405,
		ReorderPoint: 135,
		BasePrice:    273.84,
	}

	first := e.Decide(item, record, nil, nil)
	second := e.Decide(item, record, nil, nil)
	assert.Equal(t, first, second)
}
