package model

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// StatusAvailable is the status carried by every approved decision. Any other
// status string is a human-readable rejection reason.
const StatusAvailable = "Available"

// LineItemRequest is one product/quantity pair within a customer's request.
// Immutable input to the decision engine.
type LineItemRequest struct {
	ProductName         string            `json:"product_name" yaml:"product_name"`
	QuantityRequested   int               `json:"quantity_requested" yaml:"quantity_requested"`
	RequestedAttributes map[string]string `json:"requested_attributes,omitempty" yaml:"requested_attributes,omitempty"`
}

// QuoteRequest is a full customer request: an ordered list of line items.
type QuoteRequest struct {
	Customer string            `json:"customer,omitempty" yaml:"customer,omitempty"`
	Items    []LineItemRequest `json:"items" yaml:"items"`
}

// Validate checks request well-formedness. The decision engine assumes its
// inputs passed this: a blank product name or non-positive quantity is a
// caller error, not a rejection the engine can price.
func (r QuoteRequest) Validate() error {
	if len(r.Items) == 0 {
		return eris.New("model: request has no line items")
	}
	for i, item := range r.Items {
		if strings.TrimSpace(item.ProductName) == "" {
			return eris.Errorf("model: item %d has no product name", i)
		}
		if item.QuantityRequested <= 0 {
			return eris.Errorf("model: item %d has non-positive quantity", i)
		}
	}
	return nil
}

// QuoteDecision is the engine's verdict for a single line item. Constructed
// once and never mutated; the assembler consumes it as a value.
//
// Invariant: ApprovedForQuote is true iff Status == StatusAvailable and all
// four numeric fields are non-nil. On rejection the numeric fields and
// Competitors are nil and ReasoningBreakdown is empty.
type QuoteDecision struct {
	ProductName                  string             `json:"product_name"`
	QuantityRequested            int                `json:"quantity_requested"`
	ApprovedForQuote             bool               `json:"approved_for_quote"`
	BaseSingleUnitPrice          *float64           `json:"base_single_unit_price"`
	FinalSingleUnitPrice         *float64           `json:"final_single_unit_price"`
	TotalPrice                   *float64           `json:"total_price"`
	NetPriceAdjustmentPercentage *float64           `json:"net_price_adjustment_percentage"`
	ReasoningBreakdown           []string           `json:"reasoning_breakdown"`
	Competitors                  CompetitorPriceSet `json:"competitors"`
	Status                       string             `json:"status"`
}

// RiskLevel grades the business risk of quoting an item.
type RiskLevel string

const (
	RiskLow  RiskLevel = "Low"
	RiskHigh RiskLevel = "High"
)

// RiskAssessment flags decisions whose discounting warrants review.
type RiskAssessment struct {
	ProductName string    `json:"product_name"`
	Level       RiskLevel `json:"risk_level"`
	Summary     string    `json:"summary"`
	Reasons     []string  `json:"reasons,omitempty"`
}

// Quotation is the assembled output for one quote request: per-item decisions
// in request order, the event signals that informed pricing, and per-item risk.
type Quotation struct {
	ID        string           `json:"id"`
	Customer  string           `json:"customer,omitempty"`
	Decisions []QuoteDecision  `json:"decisions"`
	Events    []QualifiedEvent `json:"events,omitempty"`
	Risk      []RiskAssessment `json:"risk,omitempty"`
	Subtotal  *float64         `json:"subtotal"`
	CreatedAt time.Time        `json:"created_at"`
}
