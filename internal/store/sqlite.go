package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/quotewise/quote-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS products (
	name          TEXT PRIMARY KEY COLLATE NOCASE,
	category      TEXT NOT NULL DEFAULT '',
	stock_level   INTEGER NOT NULL DEFAULT 0,
	reorder_point INTEGER NOT NULL DEFAULT 0,
	base_price    REAL NOT NULL DEFAULT 0,
	attributes    TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS competitor_prices (
	product_name TEXT PRIMARY KEY COLLATE NOCASE,
	prices       TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS quotations (
	id         TEXT PRIMARY KEY,
	customer   TEXT NOT NULL DEFAULT '',
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE INDEX IF NOT EXISTS idx_quotations_created_at ON quotations(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveProduct(ctx context.Context, record model.InventoryRecord) error {
	attrs, err := json.Marshal(record.AvailableAttributes)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal attributes")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO products (name, category, stock_level, reorder_point, base_price, attributes)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
		   category = excluded.category,
		   stock_level = excluded.stock_level,
		   reorder_point = excluded.reorder_point,
		   base_price = excluded.base_price,
		   attributes = excluded.attributes`,
		record.ProductName, record.Category, record.StockLevel, record.ReorderPoint, record.BasePrice, string(attrs),
	)
	return eris.Wrapf(err, "sqlite: save product %s", record.ProductName)
}

func (s *SQLiteStore) GetProduct(ctx context.Context, name string) (*model.InventoryRecord, error) {
	var (
		rec   model.InventoryRecord
		attrs string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT name, category, stock_level, reorder_point, base_price, attributes
		 FROM products WHERE name = ?`, name,
	).Scan(&rec.ProductName, &rec.Category, &rec.StockLevel, &rec.ReorderPoint, &rec.BasePrice, &attrs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get product %s", name)
	}

	if err := json.Unmarshal([]byte(attrs), &rec.AvailableAttributes); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal attributes for %s", name)
	}
	return &rec, nil
}

func (s *SQLiteStore) ListProducts(ctx context.Context) ([]model.InventoryRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, category, stock_level, reorder_point, base_price, attributes
		 FROM products ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list products")
	}
	defer rows.Close()

	var records []model.InventoryRecord
	for rows.Next() {
		var (
			rec   model.InventoryRecord
			attrs string
		)
		if err := rows.Scan(&rec.ProductName, &rec.Category, &rec.StockLevel, &rec.ReorderPoint, &rec.BasePrice, &attrs); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan product")
		}
		if err := json.Unmarshal([]byte(attrs), &rec.AvailableAttributes); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal attributes for %s", rec.ProductName)
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: iterate products")
}

func (s *SQLiteStore) SetCompetitorPrices(ctx context.Context, productName string, prices model.CompetitorPriceSet) error {
	data, err := json.Marshal(prices)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal prices")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO competitor_prices (product_name, prices) VALUES (?, ?)
		 ON CONFLICT(product_name) DO UPDATE SET prices = excluded.prices`,
		productName, string(data),
	)
	return eris.Wrapf(err, "sqlite: set competitor prices %s", productName)
}

func (s *SQLiteStore) CompetitorPrices(ctx context.Context, productName string) (model.CompetitorPriceSet, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT prices FROM competitor_prices WHERE product_name = ?`, productName,
	).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get competitor prices %s", productName)
	}

	var prices model.CompetitorPriceSet
	if err := json.Unmarshal([]byte(data), &prices); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal prices for %s", productName)
	}
	if len(prices) == 0 {
		return nil, nil
	}
	return prices, nil
}

func (s *SQLiteStore) SaveQuotation(ctx context.Context, q *model.Quotation) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal quotation")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quotations (id, customer, payload, created_at) VALUES (?, ?, ?, ?)`,
		q.ID, q.Customer, string(payload), q.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert quotation %s", q.ID)
}

func (s *SQLiteStore) GetQuotation(ctx context.Context, id string) (*model.Quotation, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM quotations WHERE id = ?`, id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get quotation %s", id)
	}

	var q model.Quotation
	if err := json.Unmarshal([]byte(payload), &q); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal quotation %s", id)
	}
	return &q, nil
}

func (s *SQLiteStore) ListQuotations(ctx context.Context, limit int) ([]model.Quotation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM quotations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list quotations")
	}
	defer rows.Close()

	var quotations []model.Quotation
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan quotation")
		}
		var q model.Quotation
		if err := json.Unmarshal([]byte(payload), &q); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal quotation")
		}
		quotations = append(quotations, q)
	}
	return quotations, eris.Wrap(rows.Err(), "sqlite: iterate quotations")
}
