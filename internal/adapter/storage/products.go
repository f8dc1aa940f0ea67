package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/port"
)

const topNameCounts = 5

var _ port.ProductsStorage = (*ProductsRepository)(nil)
var _ port.CatalogReadStorage = (*ProductsRepository)(nil)

type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) StoreProducts(
	ctx context.Context, vs []domain.Product,
) (storeErr error) {
	const op = "ProductsRepository.StoreProducts"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tx, err := r.sqldb.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: failed to begin tx: %w", op, err)
	}

	defer func() {
		if storeErr == nil {
			if err := tx.Commit(); err != nil {
				storeErr = fmt.Errorf("%s: failed to commit %w", op, err)
			}
			return
		}

		err := tx.Rollback()
		if err != nil {
			log.Error("failed to rollback tx", "err", err)
		}
	}()

	query := `
		INSERT INTO products (
			id, name, sku, brand, category, description,
			price_amount, price_currency, original_price, discount_percent,
			pack_size_quantity, pack_size_unit,
			image_url, page_url, in_stock, store_id, scraped_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			sku = EXCLUDED.sku,
			brand = EXCLUDED.brand,
			category = EXCLUDED.category,
			description = EXCLUDED.description,
			price_amount = EXCLUDED.price_amount,
			price_currency = EXCLUDED.price_currency,
			original_price = EXCLUDED.original_price,
			discount_percent = EXCLUDED.discount_percent,
			pack_size_quantity = EXCLUDED.pack_size_quantity,
			pack_size_unit = EXCLUDED.pack_size_unit,
			image_url = EXCLUDED.image_url,
			page_url = EXCLUDED.page_url,
			in_stock = EXCLUDED.in_stock,
			store_id = EXCLUDED.store_id,
			scraped_at = EXCLUDED.scraped_at;
	`

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%s: failed to prepare stmt: %w", op, err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			log.Error("failed to close prepared stmt", "err", err)
		}
	}()

	for _, v := range vs {
		_, err := stmt.ExecContext(ctx,
			v.ProductID, v.Name, v.SKU, v.Brand, v.Category, v.Description,
			v.Price.Amount, v.Price.Currency, v.OriginalPrice, v.DiscountPercent,
			v.PackSize.Quantity, v.PackSize.Unit,
			v.ImageURL, v.PageURL, v.InStock, v.StoreID, v.ScrapedAt,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}

const productColumns = `
	id, name, sku, brand, category, description,
	price_amount, price_currency, original_price, discount_percent,
	pack_size_quantity, pack_size_unit,
	image_url, page_url, in_stock, store_id, scraped_at`

func (r ProductsRepository) SelectProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "ProductsRepository.SelectProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + `
		FROM products ORDER BY name ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return scanProducts(op, rows)
}

// SelectProductsByName matches the term as a case-insensitive substring
// of the product name.
func (r ProductsRepository) SelectProductsByName(
	ctx context.Context, name string,
) ([]domain.Product, error) {
	const op = "ProductsRepository.SelectProductsByName"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + `
		FROM products WHERE name ILIKE $1 ORDER BY name ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, "%"+likeEscape(name)+"%")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return scanProducts(op, rows)
}

// SelectProductsByCategory matches the term as a case-sensitive prefix
// of the stored category, mirroring the document-database range query.
func (r ProductsRepository) SelectProductsByCategory(
	ctx context.Context, category string,
) ([]domain.Product, error) {
	const op = "ProductsRepository.SelectProductsByCategory"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `SELECT` + productColumns + `
		FROM products WHERE category LIKE $1 ORDER BY name ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query, likeEscape(category)+"%")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return scanProducts(op, rows)
}

func (r ProductsRepository) SelectCatalogStats(ctx context.Context) (domain.CatalogStats, error) {
	const op = "ProductsRepository.SelectCatalogStats"

	if err := ctx.Err(); err != nil {
		return domain.CatalogStats{}, fmt.Errorf("%s: %w", op, err)
	}

	var st domain.CatalogStats

	query := `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE discount_percent > 0),
			COALESCE(AVG(price_amount), 0)
		FROM products;`

	err := r.sqldb.QueryRowContext(ctx, query).Scan(
		&st.TotalProducts, &st.DiscountedProducts, &st.AveragePrice,
	)
	if err != nil {
		return domain.CatalogStats{}, fmt.Errorf("%s: %w", op, err)
	}

	brandsQuery := `
		SELECT brand, COUNT(*) AS n FROM products
		WHERE brand <> ''
		GROUP BY brand ORDER BY n DESC, brand ASC LIMIT $1;`
	st.TopBrands, err = r.selectNameCounts(ctx, brandsQuery, topNameCounts)
	if err != nil {
		return domain.CatalogStats{}, fmt.Errorf("%s: %w", op, err)
	}

	categoriesQuery := `
		SELECT category, COUNT(*) AS n FROM products
		WHERE category <> ''
		GROUP BY category ORDER BY n DESC, category ASC LIMIT $1;`
	st.TopCategories, err = r.selectNameCounts(ctx, categoriesQuery, topNameCounts)
	if err != nil {
		return domain.CatalogStats{}, fmt.Errorf("%s: %w", op, err)
	}

	return st, nil
}

func (r ProductsRepository) selectNameCounts(
	ctx context.Context, query string, limit int,
) ([]domain.NameCount, error) {
	rows, err := r.sqldb.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vs := make([]domain.NameCount, 0, limit)
	for rows.Next() {
		var v domain.NameCount
		if err := rows.Scan(&v.Name, &v.Count); err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return vs, rows.Err()
}

func scanProducts(op string, rows *sql.Rows) ([]domain.Product, error) {
	defer rows.Close()

	ps := make([]domain.Product, 0)
	for rows.Next() {
		var v domain.Product
		err := rows.Scan(
			&v.ProductID, &v.Name, &v.SKU, &v.Brand, &v.Category, &v.Description,
			&v.Price.Amount, &v.Price.Currency, &v.OriginalPrice, &v.DiscountPercent,
			&v.PackSize.Quantity, &v.PackSize.Unit,
			&v.ImageURL, &v.PageURL, &v.InStock, &v.StoreID, &v.ScrapedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan: %w", op, err)
		}
		ps = append(ps, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likeEscape neutralizes LIKE metacharacters in a user-supplied term.
func likeEscape(term string) string {
	return likeEscaper.Replace(term)
}
