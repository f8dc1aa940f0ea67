package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/port"
)

var _ port.PriceDropsStorage = (*PriceDropsRepository)(nil)

type PriceDropsRepository struct {
	sqldb sqldb
}

func NewPriceDropsRepository(sqldb sqldb) PriceDropsRepository {
	return PriceDropsRepository{sqldb}
}

func (r PriceDropsRepository) StorePriceDrops(
	ctx context.Context, vs []domain.PriceDrop,
) (storeErr error) {
	const op = "PriceDropsRepository.StorePriceDrops"
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
		INSERT INTO price_drops (
			product_id, name, store_id, old_price, new_price, currency, dropped_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
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
			v.ProductID, v.Name, v.StoreID,
			v.OldPrice, v.NewPrice, v.Currency, v.DroppedAt,
		)
		if err != nil {
			return fmt.Errorf("%s: failed to exec: %w", op, err)
		}
	}

	return nil
}

func (r PriceDropsRepository) SelectPriceDrops(
	ctx context.Context, limit int,
) ([]domain.PriceDrop, error) {
	const op = "PriceDropsRepository.SelectPriceDrops"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT product_id, name, store_id, old_price, new_price, currency, dropped_at
		FROM price_drops
		ORDER BY dropped_at DESC
		LIMIT $1;`

	rows, err := r.sqldb.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	vs := make([]domain.PriceDrop, 0, limit)
	for rows.Next() {
		var v domain.PriceDrop
		err := rows.Scan(
			&v.ProductID, &v.Name, &v.StoreID,
			&v.OldPrice, &v.NewPrice, &v.Currency, &v.DroppedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to scan: %w", op, err)
		}
		vs = append(vs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return vs, nil
}
