package pricing

import (
	"fmt"

	"github.com/quotewise/quote-cli/internal/config"
	"github.com/quotewise/quote-cli/internal/model"
)

// Adjustment is one signed percentage contribution to the net price
// adjustment, with its audit-trail line.
type Adjustment struct {
	Percent float64
	Reason  string
}

// Rule is a single independently-evaluated pricing policy tier. Evaluate
// returns the adjustment and true when the rule fires for the given inputs.
type Rule interface {
	Evaluate(item model.LineItemRequest, record *model.InventoryRecord, events []model.QualifiedEvent) (Adjustment, bool)
}

// HighInventoryRule discounts overstocked products to reduce holding cost.
// It fires when stock meets or exceeds a configured multiple of the reorder
// point. Products with a zero reorder point never trigger it.
type HighInventoryRule struct {
	Multiple float64
	Percent  float64
}

func (r HighInventoryRule) Evaluate(_ model.LineItemRequest, record *model.InventoryRecord, _ []model.QualifiedEvent) (Adjustment, bool) {
	if record.ReorderPoint <= 0 {
		return Adjustment{}, false
	}
	if float64(record.StockLevel) < r.Multiple*float64(record.ReorderPoint) {
		return Adjustment{}, false
	}
	return Adjustment{
		Percent: r.Percent,
		Reason:  fmt.Sprintf("High Inventory Discount: Stock level (%d) is high compared to reorder point.", record.StockLevel),
	}, true
}

// BulkOrderRule discounts orders at or above a quantity tier.
type BulkOrderRule struct {
	Threshold int
	Percent   float64
}

func (r BulkOrderRule) Evaluate(item model.LineItemRequest, _ *model.InventoryRecord, _ []model.QualifiedEvent) (Adjustment, bool) {
	if r.Threshold <= 0 || item.QuantityRequested < r.Threshold {
		return Adjustment{}, false
	}
	return Adjustment{
		Percent: r.Percent,
		Reason:  fmt.Sprintf("Bulk Order Discount: For ordering %d units (%d+).", item.QuantityRequested, r.Threshold),
	}, true
}

// MarketEventRule adjusts price when a qualifying market event is active.
// The sign and magnitude are policy: a positive percent is a scarcity
// surcharge ahead of a demand spike, a negative one a promotional discount.
// The reason names the soonest event, which the scout sorts first.
type MarketEventRule struct {
	Percent float64
}

func (r MarketEventRule) Evaluate(_ model.LineItemRequest, _ *model.InventoryRecord, events []model.QualifiedEvent) (Adjustment, bool) {
	if len(events) == 0 || r.Percent == 0 {
		return Adjustment{}, false
	}
	soonest := events[0]
	return Adjustment{
		Percent: r.Percent,
		Reason:  fmt.Sprintf("Market Event Adjustment: '%s' is %d days away.", soonest.Name, soonest.DaysRemaining),
	}, true
}

// defaultRules builds the fixed-order rule table from policy config.
func defaultRules(policy config.PolicyConfig) []Rule {
	return []Rule{
		HighInventoryRule{Multiple: policy.HighInventoryMultiple, Percent: policy.HighInventoryDiscountPct},
		BulkOrderRule{Threshold: policy.BulkOrderThreshold, Percent: policy.BulkOrderDiscountPct},
		MarketEventRule{Percent: policy.EventAdjustmentPct},
	}
}
