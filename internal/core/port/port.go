package port

import (
	"context"
	"sync"

	"github.com/trolleyhk/trolley/internal/core/domain"
)

type (
	runnerContextWg interface {
		Run(context.Context, context.CancelFunc, *sync.WaitGroup)
	}

	closer interface {
		Close()
	}
)

// CatalogSource is the browse-side read strategy. Implementations must
// yield equivalent products for the same catalog regardless of the
// backing transport.
type CatalogSource interface {
	FetchAll(context.Context) ([]domain.Product, error)
	SearchByCategory(context.Context, string) ([]domain.Product, error)
}

type ProductsFeeder interface {
	FeedProducts(context.Context, []domain.Product) error
}

type ProductsSaver interface {
	SaveProducts(context.Context, []domain.Product) error
}

type PriceDropsSaver interface {
	SavePriceDrops(context.Context, []domain.PriceDrop) error
}

type CatalogReader interface {
	ListProducts(context.Context) ([]domain.Product, error)
	SearchProductsByName(context.Context, string) ([]domain.Product, error)
	SearchProductsByCategory(context.Context, string) ([]domain.Product, error)
	CatalogStats(context.Context) (domain.CatalogStats, error)
	RecentPriceDrops(context.Context, int) ([]domain.PriceDrop, error)
}

type ProductsProducer interface {
	ProduceProducts(context.Context, []domain.Product) error
}

type PriceViewer interface {
	LastTrackedPrice(ctx context.Context, productID string) (float64, bool, error)
}

type PriceWatchProcessor interface {
	runnerContextWg
	closer
}

type ProductsStorage interface {
	StoreProducts(context.Context, []domain.Product) error
}

type PriceDropsStorage interface {
	StorePriceDrops(context.Context, []domain.PriceDrop) error
	SelectPriceDrops(context.Context, int) ([]domain.PriceDrop, error)
}

type CatalogReadStorage interface {
	SelectProducts(context.Context) ([]domain.Product, error)
	SelectProductsByName(context.Context, string) ([]domain.Product, error)
	SelectProductsByCategory(context.Context, string) ([]domain.Product, error)
	SelectCatalogStats(context.Context) (domain.CatalogStats, error)
}
