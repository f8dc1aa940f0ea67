package schema

import "time"

// PriceDropSchemaTextV1 is the registry schema for detected price drops.
const PriceDropSchemaTextV1 = `{
	"type": "record",
	"namespace": "grocery",
	"name": "price_drop",
	"fields": [
		{"name": "product_id", "type": "string"},
		{"name": "name", "type": "string"},
		{"name": "store_id", "type": "string"},
		{"name": "old_price", "type": "double"},
		{"name": "new_price", "type": "double"},
		{"name": "currency", "type": "string"},
		{"name": "dropped_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

type PriceDropV1 struct {
	ProductID string    `avro:"product_id"`
	Name      string    `avro:"name"`
	StoreID   string    `avro:"store_id"`
	OldPrice  float64   `avro:"old_price"`
	NewPrice  float64   `avro:"new_price"`
	Currency  string    `avro:"currency"`
	DroppedAt time.Time `avro:"dropped_at"`
}
