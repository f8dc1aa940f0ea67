package httphandler

import (
	"time"

	"github.com/trolleyhk/trolley/internal/core/domain"
)

type (
	// Product is the browse-facing wire shape. Clients rely on these
	// field names staying stable.
	Product struct {
		ID               string  `json:"id"`
		Name             string  `json:"name"`
		Brand            string  `json:"brand"`
		Category         string  `json:"category"`
		Price            float64 `json:"price"`
		Currency         string  `json:"currency"`
		PackSizeQuantity float64 `json:"pack_size_quantity"`
		PackSizeUnit     string  `json:"pack_size_unit"`
		ImageURL         string  `json:"image_url,omitempty"`
	}

	// ProductIntake is the scraper-facing shape accepted on feed. The
	// raw pack_size text is parsed when the scraper did not split it.
	ProductIntake struct {
		ID               string    `json:"id"`
		Name             string    `json:"name"`
		SKU              string    `json:"sku"`
		Brand            string    `json:"brand"`
		Category         string    `json:"category"`
		Description      string    `json:"description"`
		Price            float64   `json:"price"`
		Currency         string    `json:"currency"`
		OriginalPrice    *float64  `json:"original_price,omitempty"`
		DiscountPercent  *float64  `json:"discount_percent,omitempty"`
		PackSizeQuantity float64   `json:"pack_size_quantity"`
		PackSizeUnit     string    `json:"pack_size_unit"`
		PackSizeRaw      string    `json:"pack_size,omitempty"`
		ImageURL         string    `json:"image_url,omitempty"`
		PageURL          string    `json:"page_url,omitempty"`
		InStock          bool      `json:"in_stock"`
		StoreID          string    `json:"store_id"`
		ScrapedAt        time.Time `json:"scraped_at"`
	}

	PriceDrop struct {
		ProductID string    `json:"product_id"`
		Name      string    `json:"name"`
		StoreID   string    `json:"store_id"`
		OldPrice  float64   `json:"old_price"`
		NewPrice  float64   `json:"new_price"`
		Currency  string    `json:"currency"`
		DroppedAt time.Time `json:"dropped_at"`
	}

	TrackedPrice struct {
		ProductID string  `json:"product_id"`
		Price     float64 `json:"price"`
	}

	NameCount struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	CatalogStats struct {
		TotalProducts      int         `json:"total_products"`
		DiscountedProducts int         `json:"discounted_products"`
		AveragePrice       float64     `json:"average_price"`
		TopBrands          []NameCount `json:"top_brands"`
		TopCategories      []NameCount `json:"top_categories"`
	}
)

func productFromDomain(p domain.Product) Product {
	return Product{
		ID:               p.ProductID,
		Name:             p.Name,
		Brand:            p.Brand,
		Category:         p.Category,
		Price:            p.Price.Amount,
		Currency:         p.Price.Currency,
		PackSizeQuantity: p.PackSize.Quantity,
		PackSizeUnit:     p.PackSize.Unit,
		ImageURL:         p.ImageURL,
	}
}

func productsFromDomain(ps []domain.Product) []Product {
	res := make([]Product, 0, len(ps))
	for _, p := range ps {
		res = append(res, productFromDomain(p))
	}
	return res
}

func dropsFromDomain(ds []domain.PriceDrop) []PriceDrop {
	res := make([]PriceDrop, 0, len(ds))
	for _, d := range ds {
		res = append(res, PriceDrop{
			ProductID: d.ProductID,
			Name:      d.Name,
			StoreID:   d.StoreID,
			OldPrice:  d.OldPrice,
			NewPrice:  d.NewPrice,
			Currency:  d.Currency,
			DroppedAt: d.DroppedAt,
		})
	}
	return res
}

func statsFromDomain(st domain.CatalogStats) CatalogStats {
	return CatalogStats{
		TotalProducts:      st.TotalProducts,
		DiscountedProducts: st.DiscountedProducts,
		AveragePrice:       st.AveragePrice,
		TopBrands:          nameCountsFromDomain(st.TopBrands),
		TopCategories:      nameCountsFromDomain(st.TopCategories),
	}
}

func nameCountsFromDomain(ns []domain.NameCount) []NameCount {
	res := make([]NameCount, 0, len(ns))
	for _, n := range ns {
		res = append(res, NameCount{Name: n.Name, Count: n.Count})
	}
	return res
}
