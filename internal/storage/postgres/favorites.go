package postgres

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

const (
	listFavoritesSQL = `SELECT product_id, title, description, price, rating, category, thumbnail, images, brand, stock
		FROM favorites ORDER BY added_at, product_id`

	insertFavoriteSQL = `INSERT INTO favorites (product_id, title, description, price, rating, category, thumbnail, images, brand, stock)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	truncateFavoritesSQL = `TRUNCATE favorites`
)

// FavoritesRepository persists full favorites snapshots in PostgreSQL.
type FavoritesRepository struct {
	pool *pgxpool.Pool
}

// NewFavoritesRepository returns a FavoritesRepository using the given pool.
func NewFavoritesRepository(pool *pgxpool.Pool) *FavoritesRepository {
	return &FavoritesRepository{pool: pool}
}

// List loads the persisted favorites, oldest first.
func (r *FavoritesRepository) List(ctx context.Context) ([]product.Product, error) {
	rows, err := r.pool.Query(ctx, listFavoritesSQL)
	if err != nil {
		return nil, errors.Wrap(err, "list favorites")
	}
	return pgx.CollectRows(rows, scanFavorite)
}

// Replace overwrites the persisted set wholesale inside one transaction.
// The favorites store is small and its save hook always carries the full
// snapshot, so replace-all keeps the table trivially consistent.
func (r *FavoritesRepository) Replace(ctx context.Context, products []product.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, truncateFavoritesSQL); err != nil {
		return errors.Wrap(err, "truncate favorites")
	}

	batch := &pgx.Batch{}
	for _, p := range products {
		images, err := json.Marshal(p.Images)
		if err != nil {
			return errors.Wrapf(err, "marshal images for %d", p.ID)
		}
		batch.Queue(insertFavoriteSQL,
			p.ID, p.Title, p.Description, p.Price, p.Rating,
			p.Category, p.Thumbnail, images, p.Brand, p.Stock,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return errors.Wrap(err, "insert favorites")
	}

	if err := tx.Commit(ctx); err != nil {
		return errors.Wrap(err, "commit")
	}
	return nil
}

func scanFavorite(row pgx.CollectableRow) (product.Product, error) {
	var (
		p      product.Product
		price  decimal.Decimal
		images []byte
	)
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &price, &p.Rating,
		&p.Category, &p.Thumbnail, &images, &p.Brand, &p.Stock,
	)
	if err != nil {
		return product.Product{}, errors.Wrap(err, "scan favorite")
	}
	p.Price = price
	if len(images) > 0 {
		if err := json.Unmarshal(images, &p.Images); err != nil {
			return product.Product{}, errors.Wrap(err, "decode images")
		}
	}
	return p, nil
}
