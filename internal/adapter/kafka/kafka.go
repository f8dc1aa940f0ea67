// Package kafka adapts the broker pipeline: producing scraped products,
// consuming them into storage and watching prices through a goka group.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lovoo/goka"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/pkg/schema"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, kgoOpts ...kgo.Opt,
) ProducerOpt {
	return func(opts *producerOpts) error {
		clOpts := append([]kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}, kgoOpts...)

		cl, err := kgo.NewClient(clOpts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type ConsumerClient interface {
	PollFetches(context.Context) kgo.Fetches
	CommitUncommittedOffsets(context.Context) error
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func withNonlogProcOpt() goka.ProcessorOption {
	return goka.WithLogger(log.New(io.Discard, "", 0))
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func productToSchemaV1(v domain.Product) (s schema.GroceryProductV1) {
	s.ID = v.ProductID
	s.Name = v.Name
	s.SKU = v.SKU
	s.Brand = v.Brand
	s.Category = v.Category
	s.Description = v.Description
	s.Price.Amount = v.Price.Amount
	s.Price.Currency = v.Price.Currency
	s.OriginalPrice = v.OriginalPrice
	s.DiscountPercent = v.DiscountPercent
	s.PackSize.Quantity = v.PackSize.Quantity
	s.PackSize.Unit = v.PackSize.Unit
	s.ImageURL = v.ImageURL
	s.PageURL = v.PageURL
	s.InStock = v.InStock
	s.StoreID = v.StoreID
	s.ScrapedAt = v.ScrapedAt
	return
}

func schemaV1ToProduct(s schema.GroceryProductV1) (v domain.Product) {
	v.ProductID = s.ID
	v.Name = s.Name
	v.SKU = s.SKU
	v.Brand = s.Brand
	v.Category = s.Category
	v.Description = s.Description
	v.Price.Amount = s.Price.Amount
	v.Price.Currency = s.Price.Currency
	v.OriginalPrice = s.OriginalPrice
	v.DiscountPercent = s.DiscountPercent
	v.PackSize.Quantity = s.PackSize.Quantity
	v.PackSize.Unit = s.PackSize.Unit
	v.ImageURL = s.ImageURL
	v.PageURL = s.PageURL
	v.InStock = s.InStock
	v.StoreID = s.StoreID
	v.ScrapedAt = s.ScrapedAt
	return
}

func priceDropToSchemaV1(v domain.PriceDrop) (s schema.PriceDropV1) {
	s.ProductID = v.ProductID
	s.Name = v.Name
	s.StoreID = v.StoreID
	s.OldPrice = v.OldPrice
	s.NewPrice = v.NewPrice
	s.Currency = v.Currency
	s.DroppedAt = v.DroppedAt
	return
}

func schemaV1ToPriceDrop(s schema.PriceDropV1) (v domain.PriceDrop) {
	v.ProductID = s.ProductID
	v.Name = s.Name
	v.StoreID = s.StoreID
	v.OldPrice = s.OldPrice
	v.NewPrice = s.NewPrice
	v.Currency = s.Currency
	v.DroppedAt = s.DroppedAt
	return
}
