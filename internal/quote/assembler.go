// Package quote assembles full quotations: it resolves catalog lookups, runs
// the decision engine across line items, grades risk, and persists the result.
package quote

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quotewise/quote-cli/internal/inventory"
	"github.com/quotewise/quote-cli/internal/model"
	"github.com/quotewise/quote-cli/internal/pricing"
	"github.com/quotewise/quote-cli/internal/store"
)

// Assembler orchestrates the quotation pipeline for one request.
type Assembler struct {
	lookup *inventory.Lookup
	engine *pricing.Engine
	store  store.Store

	maxConcurrentItems int
	riskMaxDiscountPct float64
}

// NewAssembler wires the pipeline. store may be nil, in which case quotations
// are assembled but not persisted.
func NewAssembler(lookup *inventory.Lookup, engine *pricing.Engine, s store.Store, maxConcurrentItems int, riskMaxDiscountPct float64) *Assembler {
	if maxConcurrentItems <= 0 {
		maxConcurrentItems = 4
	}
	return &Assembler{
		lookup:             lookup,
		engine:             engine,
		store:              s,
		maxConcurrentItems: maxConcurrentItems,
		riskMaxDiscountPct: riskMaxDiscountPct,
	}
}

// Assemble decides every line item in the request, in request order, and
// returns the persisted quotation. Line items are independent, so lookups and
// decisions fan out concurrently; results are written back by index to keep
// output order equal to input order.
func (a *Assembler) Assemble(ctx context.Context, req model.QuoteRequest, events []model.QualifiedEvent) (*model.Quotation, error) {
	decisions := make([]model.QuoteDecision, len(req.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrentItems)

	for i, item := range req.Items {
		g.Go(func() error {
			record, err := a.lookup.Find(gctx, item.ProductName)
			if err != nil {
				return err
			}
			var prices model.CompetitorPriceSet
			if record != nil {
				if prices, err = a.lookup.Prices(gctx, record.ProductName); err != nil {
					return err
				}
			}
			decisions[i] = a.engine.Decide(item, record, prices, events)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	q := &model.Quotation{
		Customer:  req.Customer,
		Decisions: decisions,
		Events:    events,
		Risk:      make([]model.RiskAssessment, len(decisions)),
		Subtotal:  subtotal(decisions),
	}
	for i, d := range decisions {
		q.Risk[i] = pricing.AssessRisk(d, a.riskMaxDiscountPct)
	}

	if a.store != nil {
		if err := a.store.SaveQuotation(ctx, q); err != nil {
			return nil, err
		}
	}

	zap.L().Info("quote: quotation assembled",
		zap.String("id", q.ID),
		zap.Int("items", len(decisions)),
		zap.Int("approved", approvedCount(decisions)),
	)
	return q, nil
}

// subtotal sums the totals of approved items. Nil when nothing was approved:
// a quotation of pure rejections has no price.
func subtotal(decisions []model.QuoteDecision) *float64 {
	var sum float64
	any := false
	for _, d := range decisions {
		if d.ApprovedForQuote && d.TotalPrice != nil {
			sum += *d.TotalPrice
			any = true
		}
	}
	if !any {
		return nil
	}
	return &sum
}

func approvedCount(decisions []model.QuoteDecision) int {
	n := 0
	for _, d := range decisions {
		if d.ApprovedForQuote {
			n++
		}
	}
	return n
}
