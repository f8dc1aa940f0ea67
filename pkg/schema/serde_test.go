package schema_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trolleyhk/trolley/pkg/schema"
)

type MockSchemaIdentifier struct {
	mock.Mock
}

func (c *MockSchemaIdentifier) DetermineID(
	ctx context.Context, subject string, avroSchemaText string,
) (id int, err error) {
	args := c.Called(ctx, subject, avroSchemaText)
	return args.Int(0), args.Error(1)
}

func TestSerdeGroceryProductV1(t *testing.T) {

	t.Run("NoOpts", func(t *testing.T) {
		_, err := schema.NewSerdeGroceryProductV1(t.Context())
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("OneOpt", func(t *testing.T) {
		_, err := schema.NewSerdeGroceryProductV1(
			t.Context(),
			schema.SchemaIdentifierOpt(new(MockSchemaIdentifier)),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, schema.ErrTooFewOpts)
	})

	t.Run("IdentifierAndSubjectOpts", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "testTopic-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.GroceryProductSchemaTextV1,
		).Return(schemaID, nil)

		_, err := schema.NewSerdeGroceryProductV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)
	})

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		schemaID := 1
		subject := "testTopic-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.GroceryProductSchemaTextV1,
		).Return(schemaID, nil)

		serde, err := schema.NewSerdeGroceryProductV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		originalPrice := 29.9
		discountPercent := 21.4

		productValue1 := schema.GroceryProductV1{
			ID:          "BP_103625",
			Name:        "Kowloon Dairy Fresh Milk",
			SKU:         "103625",
			Brand:       "Kowloon Dairy",
			Category:    "Dairy",
			Description: "Pasteurised whole milk",
			Price: schema.ProductPriceV1{
				Amount:   23.5,
				Currency: "HKD",
			},
			OriginalPrice:   &originalPrice,
			DiscountPercent: &discountPercent,
			PackSize: schema.PackSizeV1{
				Quantity: 946,
				Unit:     "ml",
			},
			ImageURL:  "https://cdn.example.com/milk.jpg",
			PageURL:   "https://www.pns.hk/en/p/BP_103625",
			InStock:   true,
			StoreID:   "pns",
			ScrapedAt: time.UnixMilli(1724550000000).UTC(),
		}

		encodedData, err := serde.Encode(productValue1)
		require.NoError(t, err)

		var productValue2 schema.GroceryProductV1
		err = serde.Decode(encodedData, &productValue2)
		require.NoError(t, err)

		assert.Equal(t, productValue1.ID, productValue2.ID)
		assert.Equal(t, productValue1.Name, productValue2.Name)
		assert.Equal(t, productValue1.SKU, productValue2.SKU)
		assert.Equal(t, productValue1.Brand, productValue2.Brand)
		assert.Equal(t, productValue1.Category, productValue2.Category)
		assert.Equal(t, productValue1.Description, productValue2.Description)
		assert.Equal(t, productValue1.Price, productValue2.Price)
		assert.Equal(t, productValue1.PackSize, productValue2.PackSize)
		assert.Equal(t, productValue1.ImageURL, productValue2.ImageURL)
		assert.Equal(t, productValue1.PageURL, productValue2.PageURL)
		assert.Equal(t, productValue1.InStock, productValue2.InStock)
		assert.Equal(t, productValue1.StoreID, productValue2.StoreID)
		assert.Equal(
			t,
			productValue1.ScrapedAt.UnixMilli(),
			productValue2.ScrapedAt.UnixMilli(),
		)

		require.NotNil(t, productValue2.OriginalPrice)
		assert.InDelta(t, originalPrice, *productValue2.OriginalPrice, 1e-9)
		require.NotNil(t, productValue2.DiscountPercent)
		assert.InDelta(t, discountPercent, *productValue2.DiscountPercent, 1e-9)
	})

	t.Run("EncodeDecodeWithoutPromotion", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		subject := "testTopic-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.GroceryProductSchemaTextV1,
		).Return(1, nil)

		serde, err := schema.NewSerdeGroceryProductV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		productValue1 := schema.GroceryProductV1{
			ID:        "BP_200001",
			Name:      "Garden Life Bread",
			Category:  "Bakery",
			Price:     schema.ProductPriceV1{Amount: 12.0, Currency: "HKD"},
			ScrapedAt: time.UnixMilli(1724550000000).UTC(),
		}

		encodedData, err := serde.Encode(productValue1)
		require.NoError(t, err)

		var productValue2 schema.GroceryProductV1
		err = serde.Decode(encodedData, &productValue2)
		require.NoError(t, err)

		assert.Nil(t, productValue2.OriginalPrice)
		assert.Nil(t, productValue2.DiscountPercent)
	})
}

func TestSerdePriceDropV1(t *testing.T) {

	t.Run("EncodeDecode", func(t *testing.T) {
		schemaIdentifier := new(MockSchemaIdentifier)
		subject := "testDrops-value"

		schemaIdentifier.On(
			"DetermineID", t.Context(), subject, schema.PriceDropSchemaTextV1,
		).Return(7, nil)

		serde, err := schema.NewSerdePriceDropV1(
			t.Context(),
			schema.SubjectOpt(subject),
			schema.SchemaIdentifierOpt(schemaIdentifier),
		)
		require.NoError(t, err)

		dropValue1 := schema.PriceDropV1{
			ProductID: "BP_103625",
			Name:      "Kowloon Dairy Fresh Milk",
			StoreID:   "pns",
			OldPrice:  29.9,
			NewPrice:  23.5,
			Currency:  "HKD",
			DroppedAt: time.UnixMilli(1724550000000).UTC(),
		}

		encodedData, err := serde.Encode(dropValue1)
		require.NoError(t, err)

		var dropValue2 schema.PriceDropV1
		err = serde.Decode(encodedData, &dropValue2)
		require.NoError(t, err)

		assert.Equal(t, dropValue1.ProductID, dropValue2.ProductID)
		assert.Equal(t, dropValue1.Name, dropValue2.Name)
		assert.Equal(t, dropValue1.StoreID, dropValue2.StoreID)
		assert.InDelta(t, dropValue1.OldPrice, dropValue2.OldPrice, 1e-9)
		assert.InDelta(t, dropValue1.NewPrice, dropValue2.NewPrice, 1e-9)
		assert.Equal(t, dropValue1.Currency, dropValue2.Currency)
		assert.Equal(
			t, dropValue1.DroppedAt.UnixMilli(), dropValue2.DroppedAt.UnixMilli(),
		)
	})
}
