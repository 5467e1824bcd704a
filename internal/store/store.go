// Package store persists the product catalog, competitor price feed, and
// assembled quotations.
package store

import (
	"context"

	"github.com/quotewise/quote-cli/internal/model"
)

// Store defines the persistence interface for the quotation pipeline.
// Catalog and price lookups return (nil, nil) on a miss: an absent product is
// data the decision engine turns into a rejection, not a fault.
type Store interface {
	// Catalog
	SaveProduct(ctx context.Context, record model.InventoryRecord) error
	GetProduct(ctx context.Context, name string) (*model.InventoryRecord, error)
	ListProducts(ctx context.Context) ([]model.InventoryRecord, error)

	// Competitor price feed
	SetCompetitorPrices(ctx context.Context, productName string, prices model.CompetitorPriceSet) error
	CompetitorPrices(ctx context.Context, productName string) (model.CompetitorPriceSet, error)

	// Quotations
	SaveQuotation(ctx context.Context, q *model.Quotation) error
	GetQuotation(ctx context.Context, id string) (*model.Quotation, error)
	ListQuotations(ctx context.Context, limit int) ([]model.Quotation, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
