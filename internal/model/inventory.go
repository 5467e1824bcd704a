package model

// InventoryRecord is the catalog entry for a single product. Owned by the
// inventory store; the decision engine treats it as read-only.
type InventoryRecord struct {
	ProductName         string              `json:"product_name"`
	Category            string              `json:"category,omitempty"`
	StockLevel          int                 `json:"stock_level"`
	ReorderPoint        int                 `json:"reorder_point"`
	BasePrice           float64             `json:"base_price"`
	AvailableAttributes map[string][]string `json:"available_attributes,omitempty"`
}

// CompetitorPriceSet maps competitor name to their listed price for a product.
// A nil set means the feed had no data.
type CompetitorPriceSet map[string]float64
