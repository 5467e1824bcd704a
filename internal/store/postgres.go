package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/quotewise/quote-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store needs; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool; used by tests.
func NewPostgresFromPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS products (
	name          TEXT PRIMARY KEY,
	category      TEXT NOT NULL DEFAULT '',
	stock_level   INTEGER NOT NULL DEFAULT 0,
	reorder_point INTEGER NOT NULL DEFAULT 0,
	base_price    DOUBLE PRECISION NOT NULL DEFAULT 0,
	attributes    JSONB NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS competitor_prices (
	product_name TEXT PRIMARY KEY,
	prices       JSONB NOT NULL
);

CREATE TABLE IF NOT EXISTS quotations (
	id         TEXT PRIMARY KEY,
	customer   TEXT NOT NULL DEFAULT '',
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_products_lower_name ON products (LOWER(name));
CREATE INDEX IF NOT EXISTS idx_quotations_created_at ON quotations (created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) SaveProduct(ctx context.Context, record model.InventoryRecord) error {
	attrs, err := json.Marshal(record.AvailableAttributes)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal attributes")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO products (name, category, stock_level, reorder_point, base_price, attributes)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (name) DO UPDATE SET
		   category = EXCLUDED.category,
		   stock_level = EXCLUDED.stock_level,
		   reorder_point = EXCLUDED.reorder_point,
		   base_price = EXCLUDED.base_price,
		   attributes = EXCLUDED.attributes`,
		record.ProductName, record.Category, record.StockLevel, record.ReorderPoint, record.BasePrice, attrs,
	)
	return eris.Wrapf(err, "postgres: save product %s", record.ProductName)
}

func (s *PostgresStore) GetProduct(ctx context.Context, name string) (*model.InventoryRecord, error) {
	var (
		rec   model.InventoryRecord
		attrs []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT name, category, stock_level, reorder_point, base_price, attributes
		 FROM products WHERE LOWER(name) = LOWER($1)`, name,
	).Scan(&rec.ProductName, &rec.Category, &rec.StockLevel, &rec.ReorderPoint, &rec.BasePrice, &attrs)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get product %s", name)
	}

	if err := json.Unmarshal(attrs, &rec.AvailableAttributes); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal attributes for %s", name)
	}
	return &rec, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]model.InventoryRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, category, stock_level, reorder_point, base_price, attributes
		 FROM products ORDER BY name`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list products")
	}
	defer rows.Close()

	var records []model.InventoryRecord
	for rows.Next() {
		var (
			rec   model.InventoryRecord
			attrs []byte
		)
		if err := rows.Scan(&rec.ProductName, &rec.Category, &rec.StockLevel, &rec.ReorderPoint, &rec.BasePrice, &attrs); err != nil {
			return nil, eris.Wrap(err, "postgres: scan product")
		}
		if err := json.Unmarshal(attrs, &rec.AvailableAttributes); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal attributes for %s", rec.ProductName)
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "postgres: iterate products")
}

func (s *PostgresStore) SetCompetitorPrices(ctx context.Context, productName string, prices model.CompetitorPriceSet) error {
	data, err := json.Marshal(prices)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal prices")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO competitor_prices (product_name, prices) VALUES ($1, $2)
		 ON CONFLICT (product_name) DO UPDATE SET prices = EXCLUDED.prices`,
		productName, data,
	)
	return eris.Wrapf(err, "postgres: set competitor prices %s", productName)
}

func (s *PostgresStore) CompetitorPrices(ctx context.Context, productName string) (model.CompetitorPriceSet, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT prices FROM competitor_prices WHERE LOWER(product_name) = LOWER($1)`, productName,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get competitor prices %s", productName)
	}

	var prices model.CompetitorPriceSet
	if err := json.Unmarshal(data, &prices); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal prices for %s", productName)
	}
	if len(prices) == 0 {
		return nil, nil
	}
	return prices, nil
}

func (s *PostgresStore) SaveQuotation(ctx context.Context, q *model.Quotation) error {
	if q.ID == "" {
		q.ID = uuid.New().String()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(q)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal quotation")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO quotations (id, customer, payload, created_at) VALUES ($1, $2, $3, $4)`,
		q.ID, q.Customer, payload, q.CreatedAt,
	)
	return eris.Wrapf(err, "postgres: insert quotation %s", q.ID)
}

func (s *PostgresStore) GetQuotation(ctx context.Context, id string) (*model.Quotation, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM quotations WHERE id = $1`, id,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get quotation %s", id)
	}

	var q model.Quotation
	if err := json.Unmarshal(payload, &q); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal quotation %s", id)
	}
	return &q, nil
}

func (s *PostgresStore) ListQuotations(ctx context.Context, limit int) ([]model.Quotation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM quotations ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list quotations")
	}
	defer rows.Close()

	var quotations []model.Quotation
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrap(err, "postgres: scan quotation")
		}
		var q model.Quotation
		if err := json.Unmarshal(payload, &q); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal quotation")
		}
		quotations = append(quotations, q)
	}
	return quotations, eris.Wrap(rows.Err(), "postgres: iterate quotations")
}
