// Package pricing implements the deterministic quote decision engine: per-item
// availability validation and price adjustment under a configurable rule table.
package pricing

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/quotewise/quote-cli/internal/config"
	"github.com/quotewise/quote-cli/internal/model"
)

// Engine produces exactly one QuoteDecision per line item. It performs no I/O:
// the inventory record, competitor prices, and qualified events are resolved by
// the caller, so Decide is pure given its inputs.
type Engine struct {
	rules  []Rule
	policy config.PolicyConfig
}

// NewEngine builds an engine with the fixed-order rule table derived from the
// given policy.
func NewEngine(policy config.PolicyConfig) *Engine {
	return &Engine{
		rules:  defaultRules(policy),
		policy: policy,
	}
}

// Decide validates the line item against the inventory record and, when it
// passes, prices it. A nil record means the product was not found (a failed or
// empty lookup is data, not a fault). A nil or empty price set means the
// competitor feed had nothing for this product.
func (e *Engine) Decide(item model.LineItemRequest, record *model.InventoryRecord, prices model.CompetitorPriceSet, events []model.QualifiedEvent) model.QuoteDecision {
	if record == nil {
		return rejected(item, fmt.Sprintf("Product '%s' not found in inventory.", item.ProductName))
	}

	if msg, ok := attributeMismatch(item, record); ok {
		return rejected(item, msg)
	}

	if item.QuantityRequested > record.StockLevel {
		return rejected(item, fmt.Sprintf(
			"Product '%s' is available, but only %d units are in stock. Requested quantity (%d) exceeds available stock.",
			item.ProductName, record.StockLevel, item.QuantityRequested,
		))
	}

	return e.price(item, record, prices, events)
}

// price applies the rule table and computes the adjusted prices. Adjustments
// stack by summing percentage points, never by successive multiplication.
func (e *Engine) price(item model.LineItemRequest, record *model.InventoryRecord, prices model.CompetitorPriceSet, events []model.QualifiedEvent) model.QuoteDecision {
	var (
		net       float64
		breakdown = []string{}
	)
	for _, rule := range e.rules {
		adj, ok := rule.Evaluate(item, record, events)
		if !ok || adj.Percent == 0 {
			continue
		}
		net += adj.Percent
		breakdown = append(breakdown, adj.Reason)
	}

	// Clamp to the configured floor to prevent below-cost quoting.
	if floor := e.policy.MaxDiscountFloorPct; floor < 0 && net < floor {
		breakdown = append(breakdown, fmt.Sprintf(
			"Capped: Net adjustment limited to %.1f%% by discount floor.", floor,
		))
		net = floor
	}

	base := record.BasePrice
	unit := base * (1 + net/100)

	final := round2(unit)
	total := round2(unit * float64(item.QuantityRequested))
	netPct := round1((unit - base) / base * 100)

	if len(prices) == 0 {
		prices = nil
	}

	zap.L().Debug("pricing: item approved",
		zap.String("product", item.ProductName),
		zap.Int("quantity", item.QuantityRequested),
		zap.Float64("base_price", base),
		zap.Float64("final_price", final),
		zap.Float64("net_adjustment_pct", netPct),
		zap.Int("rules_fired", len(breakdown)),
	)

	return model.QuoteDecision{
		ProductName:                  item.ProductName,
		QuantityRequested:            item.QuantityRequested,
		ApprovedForQuote:             true,
		BaseSingleUnitPrice:          &base,
		FinalSingleUnitPrice:         &final,
		TotalPrice:                   &total,
		NetPriceAdjustmentPercentage: &netPct,
		ReasoningBreakdown:           breakdown,
		Competitors:                  prices,
		Status:                       model.StatusAvailable,
	}
}

// rejected builds a rejection decision: numeric fields and competitors nil,
// breakdown empty, status carrying the specific reason.
func rejected(item model.LineItemRequest, status string) model.QuoteDecision {
	return model.QuoteDecision{
		ProductName:        item.ProductName,
		QuantityRequested:  item.QuantityRequested,
		ApprovedForQuote:   false,
		ReasoningBreakdown: []string{},
		Status:             status,
	}
}

// attributeKeyOrder puts the conventional apparel attributes first in
// rejection messages; anything else follows alphabetically.
var attributeKeyOrder = map[string]int{"size": 0, "color": 1}

// attributeMismatch checks the requested attribute combination against the
// record's available attributes, case-insensitively. On mismatch it returns a
// message naming what is stocked and which requested value(s) are not.
func attributeMismatch(item model.LineItemRequest, record *model.InventoryRecord) (string, bool) {
	if len(item.RequestedAttributes) == 0 {
		return "", false
	}

	var missing []string
	for key, want := range item.RequestedAttributes {
		have, ok := availableValues(record, key)
		if !ok {
			// Attribute not tracked for this product; nothing to contradict.
			continue
		}
		if !containsFold(have, want) {
			missing = append(missing, want)
		}
	}
	if len(missing) == 0 {
		return "", false
	}
	sort.Strings(missing)

	return fmt.Sprintf("Product '%s' is available in %s, but not in the requested '%s'.",
		item.ProductName, describeAvailable(record), strings.Join(missing, "' or '"),
	), true
}

// describeAvailable renders the stocked attribute values, e.g.
// "'Large' size and 'Black' color".
func describeAvailable(record *model.InventoryRecord) string {
	keys := make([]string, 0, len(record.AvailableAttributes))
	for k := range record.AvailableAttributes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iok := attributeKeyOrder[strings.ToLower(keys[i])]
		oj, jok := attributeKeyOrder[strings.ToLower(keys[j])]
		switch {
		case iok && jok:
			return oi < oj
		case iok:
			return true
		case jok:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		values := record.AvailableAttributes[k]
		parts = append(parts, fmt.Sprintf("'%s' %s", strings.Join(values, "/"), strings.ToLower(k)))
	}
	return strings.Join(parts, " and ")
}

// availableValues finds the stocked values for an attribute key,
// case-insensitively.
func availableValues(record *model.InventoryRecord, key string) ([]string, bool) {
	for k, v := range record.AvailableAttributes {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func containsFold(values []string, want string) bool {
	for _, v := range values {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round1(x float64) float64 { return math.Round(x*10) / 10 }
