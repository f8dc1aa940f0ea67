package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/port"
)

var _ port.ProductsFeeder = (*Service)(nil)
var _ port.ProductsSaver = (*Service)(nil)
var _ port.PriceDropsSaver = (*Service)(nil)
var _ port.CatalogReader = (*Service)(nil)
var _ port.PriceViewer = (*Service)(nil)

type Service struct {
	productsProducer  port.ProductsProducer
	productsStorage   port.ProductsStorage
	priceDropsStorage port.PriceDropsStorage
	catalogStorage    port.CatalogReadStorage
	priceWatchProc    port.PriceWatchProcessor
	priceView         port.PriceViewer
}

func New(
	productsProducer port.ProductsProducer,
	productsStorage port.ProductsStorage,
	priceDropsStorage port.PriceDropsStorage,
	catalogStorage port.CatalogReadStorage,
	priceWatchProc port.PriceWatchProcessor,
	priceView port.PriceViewer,
) Service {
	return Service{
		productsProducer,
		productsStorage,
		priceDropsStorage,
		catalogStorage,
		priceWatchProc,
		priceView,
	}
}

// Run runs the service processors in separate goroutines.
//
// Blocks current goroutine while components is preparing to ready state.
func (s Service) Run(ctx context.Context, stopFn context.CancelFunc) {
	var wg sync.WaitGroup
	wg.Add(1)
	go s.priceWatchProc.Run(ctx, stopFn, &wg)
	wg.Wait()
}

func (s Service) Close() {
	s.priceWatchProc.Close()
}

func (s Service) FeedProducts(ctx context.Context, ps []domain.Product) error {
	const op = "Service.FeedProducts"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.productsProducer.ProduceProducts(ctx, ps)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) SaveProducts(ctx context.Context, ps []domain.Product) error {
	const op = "Service.SaveProducts"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.productsStorage.StoreProducts(ctx, ps)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) SavePriceDrops(ctx context.Context, ds []domain.PriceDrop) error {
	const op = "Service.SavePriceDrops"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.priceDropsStorage.StorePriceDrops(ctx, ds)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	const op = "Service.ListProducts"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.catalogStorage.SelectProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) SearchProductsByName(ctx context.Context, name string) ([]domain.Product, error) {
	const op = "Service.SearchProductsByName"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.catalogStorage.SelectProductsByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) SearchProductsByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	const op = "Service.SearchProductsByCategory"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ps, err := s.catalogStorage.SelectProductsByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (s Service) CatalogStats(ctx context.Context) (domain.CatalogStats, error) {
	const op = "Service.CatalogStats"

	if err := ctx.Err(); err != nil {
		return domain.CatalogStats{}, fmt.Errorf("%s: %w", op, err)
	}

	st, err := s.catalogStorage.SelectCatalogStats(ctx)
	if err != nil {
		return domain.CatalogStats{}, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

func (s Service) RecentPriceDrops(ctx context.Context, limit int) ([]domain.PriceDrop, error) {
	const op = "Service.RecentPriceDrops"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ds, err := s.priceDropsStorage.SelectPriceDrops(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ds, nil
}

func (s Service) LastTrackedPrice(
	ctx context.Context, productID string,
) (float64, bool, error) {
	const op = "Service.LastTrackedPrice"

	if err := ctx.Err(); err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}

	price, found, err := s.priceView.LastTrackedPrice(ctx, productID)
	if err != nil {
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return price, found, nil
}
