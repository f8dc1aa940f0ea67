package domain

import (
	"strings"
	"time"
)

type (
	Product struct {
		ProductID       string
		Name            string
		SKU             string
		Brand           string
		Category        string
		Description     string
		Price           ProductPrice
		OriginalPrice   *float64
		DiscountPercent *float64
		PackSize        PackSize
		ImageURL        string
		PageURL         string
		InStock         bool
		StoreID         string
		ScrapedAt       time.Time
	}

	ProductPrice struct {
		Amount   float64
		Currency string
	}

	PackSize struct {
		Quantity float64
		Unit     string
	}
)

// UnitPrice returns the price per single pack unit.
// The boolean reports whether the product carries a usable pack size.
func (p Product) UnitPrice() (float64, bool) {
	if p.PackSize.Quantity <= 0 {
		return 0, false
	}
	return p.Price.Amount / p.PackSize.Quantity, true
}

var idReplacer = strings.NewReplacer("/", "_", ":", "_")

// IDFromURL derives a stable product identifier from the product page URL.
func IDFromURL(pageURL string) string {
	return idReplacer.Replace(pageURL)
}

type PriceDrop struct {
	ProductID string
	Name      string
	StoreID   string
	OldPrice  float64
	NewPrice  float64
	Currency  string
	DroppedAt time.Time
}

// Percent reports the drop depth relative to the old price.
func (d PriceDrop) Percent() float64 {
	if d.OldPrice <= 0 {
		return 0
	}
	return (d.OldPrice - d.NewPrice) / d.OldPrice * 100
}

type (
	CatalogStats struct {
		TotalProducts      int
		DiscountedProducts int
		AveragePrice       float64
		TopBrands          []NameCount
		TopCategories      []NameCount
	}

	NameCount struct {
		Name  string
		Count int
	}
)
