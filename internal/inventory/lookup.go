// Package inventory provides product catalog lookups and catalog import for
// the quotation pipeline.
package inventory

import (
	"context"

	"go.uber.org/zap"

	"github.com/quotewise/quote-cli/internal/model"
	"github.com/quotewise/quote-cli/internal/store"
)

// Lookup resolves products and competitor prices from the catalog store.
// A miss is (nil, nil): the decision engine turns it into a rejection.
type Lookup struct {
	store   store.Store
	matcher Matcher
}

// NewLookup builds a Lookup over the given store.
func NewLookup(s store.Store, matcher Matcher) *Lookup {
	return &Lookup{store: s, matcher: matcher}
}

// Find returns the inventory record for a product name, or nil when absent.
func (l *Lookup) Find(ctx context.Context, name string) (*model.InventoryRecord, error) {
	return l.store.GetProduct(ctx, name)
}

// Prices returns the competitor price set for a product, or nil when the feed
// has no data.
func (l *Lookup) Prices(ctx context.Context, name string) (model.CompetitorPriceSet, error) {
	return l.store.CompetitorPrices(ctx, name)
}

// FindWithSuggestions resolves a product; on a miss it also returns close
// name matches from the catalog to help the caller surface alternatives.
func (l *Lookup) FindWithSuggestions(ctx context.Context, name string) (*model.InventoryRecord, []string, error) {
	rec, err := l.store.GetProduct(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	if rec != nil {
		return rec, nil, nil
	}

	all, err := l.store.ListProducts(ctx)
	if err != nil {
		return nil, nil, err
	}
	names := make([]string, len(all))
	for i, r := range all {
		names[i] = r.ProductName
	}

	suggestions := l.matcher.Suggest(name, names)
	if len(suggestions) > 0 {
		zap.L().Debug("inventory: near misses for unknown product",
			zap.String("query", name),
			zap.Strings("suggestions", suggestions),
		)
	}
	return nil, suggestions, nil
}
