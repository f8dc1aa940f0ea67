package schema

import "time"

// GroceryProductSchemaTextV1 is the registry schema for scraped grocery
// products. Optional money fields are nullable so that products without a
// promotion stay distinguishable from zero-priced ones.
const GroceryProductSchemaTextV1 = `{
	"type": "record",
	"namespace": "grocery",
	"name": "product",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "name", "type": "string"},
		{"name": "sku", "type": "string"},
		{"name": "brand", "type": "string"},
		{"name": "category", "type": "string"},
		{"name": "description", "type": "string"},
		{"name": "price", "type": {
			"type": "record",
			"name": "price",
			"fields": [
				{"name": "amount", "type": "double"},
				{"name": "currency", "type": "string"}
			]
		}},
		{"name": "original_price", "type": ["null", "double"], "default": null},
		{"name": "discount_percent", "type": ["null", "double"], "default": null},
		{"name": "pack_size", "type": {
			"type": "record",
			"name": "pack_size",
			"fields": [
				{"name": "quantity", "type": "double"},
				{"name": "unit", "type": "string"}
			]
		}},
		{"name": "image_url", "type": "string"},
		{"name": "page_url", "type": "string"},
		{"name": "in_stock", "type": "boolean"},
		{"name": "store_id", "type": "string"},
		{"name": "scraped_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type (
	GroceryProductV1 struct {
		ID              string         `avro:"id"`
		Name            string         `avro:"name"`
		SKU             string         `avro:"sku"`
		Brand           string         `avro:"brand"`
		Category        string         `avro:"category"`
		Description     string         `avro:"description"`
		Price           ProductPriceV1 `avro:"price"`
		OriginalPrice   *float64       `avro:"original_price"`
		DiscountPercent *float64       `avro:"discount_percent"`
		PackSize        PackSizeV1     `avro:"pack_size"`
		ImageURL        string         `avro:"image_url"`
		PageURL         string         `avro:"page_url"`
		InStock         bool           `avro:"in_stock"`
		StoreID         string         `avro:"store_id"`
		ScrapedAt       time.Time      `avro:"scraped_at"`
	}

	ProductPriceV1 struct {
		Amount   float64 `avro:"amount"`
		Currency string  `avro:"currency"`
	}

	PackSizeV1 struct {
		Quantity float64 `avro:"quantity"`
		Unit     string  `avro:"unit"`
	}
)
