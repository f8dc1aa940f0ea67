// Package catalog provides the browse-side bindings of the catalog:
// a REST client and a Firestore client behind one port, selected by
// configuration.
package catalog

import "github.com/trolleyhk/trolley/internal/core/domain"

// productPayload is the wire shape shared by both backends. Unknown
// fields in a response are ignored; absent fields decode to zero
// values.
type productPayload struct {
	ID               string  `json:"id" firestore:"id"`
	Name             string  `json:"name" firestore:"name"`
	Brand            string  `json:"brand" firestore:"brand"`
	Category         string  `json:"category" firestore:"category"`
	Price            float64 `json:"price" firestore:"price"`
	Currency         string  `json:"currency" firestore:"currency"`
	PackSizeQuantity float64 `json:"pack_size_quantity" firestore:"pack_size_quantity"`
	PackSizeUnit     string  `json:"pack_size_unit" firestore:"pack_size_unit"`
	ImageURL         string  `json:"image_url,omitempty" firestore:"image_url"`
}

func (pp productPayload) toDomain() domain.Product {
	return domain.Product{
		ProductID: pp.ID,
		Name:      pp.Name,
		Brand:     pp.Brand,
		Category:  pp.Category,
		Price: domain.ProductPrice{
			Amount:   pp.Price,
			Currency: pp.Currency,
		},
		PackSize: domain.PackSize{
			Quantity: pp.PackSizeQuantity,
			Unit:     pp.PackSizeUnit,
		},
		ImageURL: pp.ImageURL,
	}
}

func toDomainProducts(pps []productPayload) []domain.Product {
	ps := make([]domain.Product, 0, len(pps))
	for _, pp := range pps {
		ps = append(ps, pp.toDomain())
	}
	return ps
}
