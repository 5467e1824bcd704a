package inventory

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/quotewise/quote-cli/internal/model"
	"github.com/quotewise/quote-cli/internal/store"
)

// catalogColumns are the header names the importer understands. Any other
// column is treated as a competitor name and its numeric values as that
// competitor's price.
var catalogColumns = map[string]bool{
	"product_name":  true,
	"category":      true,
	"size":          true,
	"color":         true,
	"stock_level":   true,
	"reorder_point": true,
	"base_price":    true,
}

// ImportResult summarizes a catalog import.
type ImportResult struct {
	Products    int
	PriceSets   int
	SkippedRows int
}

// ImportCSV loads a product catalog file into the store. One row per product
// variant: rows sharing a product name merge their size/color values into the
// record's available attributes, with the last row winning on stock and price.
func ImportCSV(ctx context.Context, s store.Store, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "inventory: open catalog %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrap(err, "inventory: read catalog header")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["product_name"]; !ok {
		return nil, eris.New("inventory: catalog missing product_name column")
	}

	records := map[string]*model.InventoryRecord{}
	prices := map[string]model.CompetitorPriceSet{}
	var order []string
	result := &ImportResult{}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "inventory: read catalog row")
		}

		name := strings.TrimSpace(field(row, cols, "product_name"))
		if name == "" {
			result.SkippedRows++
			continue
		}
		key := strings.ToLower(name)

		rec, seen := records[key]
		if !seen {
			rec = &model.InventoryRecord{ProductName: name}
			records[key] = rec
			order = append(order, key)
		}

		if v := field(row, cols, "category"); v != "" {
			rec.Category = v
		}
		if v := field(row, cols, "stock_level"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				result.SkippedRows++
				zap.L().Warn("inventory: bad stock_level, skipping row",
					zap.String("product", name), zap.String("value", v))
				continue
			}
			rec.StockLevel = n
		}
		if v := field(row, cols, "reorder_point"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				rec.ReorderPoint = n
			}
		}
		if v := field(row, cols, "base_price"); v != "" {
			p, err := strconv.ParseFloat(v, 64)
			if err != nil {
				result.SkippedRows++
				zap.L().Warn("inventory: bad base_price, skipping row",
					zap.String("product", name), zap.String("value", v))
				continue
			}
			rec.BasePrice = p
		}
		mergeAttribute(rec, "size", field(row, cols, "size"))
		mergeAttribute(rec, "color", field(row, cols, "color"))

		// Remaining columns are competitor prices.
		for col, idx := range cols {
			if catalogColumns[col] || idx >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[idx])
			if v == "" {
				continue
			}
			p, err := strconv.ParseFloat(v, 64)
			if err != nil || p <= 0 {
				continue
			}
			if prices[key] == nil {
				prices[key] = model.CompetitorPriceSet{}
			}
			prices[key][originalHeader(header, idx)] = p
		}
	}

	for _, key := range order {
		rec := records[key]
		if err := s.SaveProduct(ctx, *rec); err != nil {
			return nil, err
		}
		result.Products++

		if ps := prices[key]; len(ps) > 0 {
			if err := s.SetCompetitorPrices(ctx, rec.ProductName, ps); err != nil {
				return nil, err
			}
			result.PriceSets++
		}
	}

	zap.L().Info("inventory: catalog imported",
		zap.String("path", path),
		zap.Int("products", result.Products),
		zap.Int("price_sets", result.PriceSets),
		zap.Int("skipped_rows", result.SkippedRows),
	)
	return result, nil
}

func field(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func originalHeader(header []string, idx int) string {
	return strings.TrimSpace(header[idx])
}

func mergeAttribute(rec *model.InventoryRecord, key, value string) {
	if value == "" {
		return
	}
	if rec.AvailableAttributes == nil {
		rec.AvailableAttributes = map[string][]string{}
	}
	for _, existing := range rec.AvailableAttributes[key] {
		if strings.EqualFold(existing, value) {
			return
		}
	}
	rec.AvailableAttributes[key] = append(rec.AvailableAttributes[key], value)
}
