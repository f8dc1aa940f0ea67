package kafka

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"github.com/lovoo/goka"

	"github.com/trolleyhk/trolley/internal/core/port"
	"github.com/trolleyhk/trolley/pkg/schema"
)

var _ port.PriceWatchProcessor = (*PriceWatchProcessor)(nil)

// A processor is used for composition.
//
// Running and closing the underlying [goka.Processor]
type processor struct {
	opPrefix string
	gp       *goka.Processor
}

func (p *processor) run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer wg.Done()

	go p.runProc(ctx, stopFn)

	log.Info("preparing...")
	p.waitForReady(ctx)
	log.Info("running")
}

func (p *processor) runProc(ctx context.Context, stopFn context.CancelFunc) {
	const op = "run"
	log := slog.With("op", makeOp(p.opPrefix, op))

	defer stopFn()

	err := p.gp.Run(ctx)
	if err != nil {
		log.Error("stopped", "err", err)
		return
	}
	log.Info("stopped")
}

func (p *processor) waitForReady(ctx context.Context) {
	const op = "waitForReady"
	log := slog.With("op", makeOp(p.opPrefix, op))

	err := p.gp.WaitForReadyContext(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Error("fall down while preparing", "err", err)
		return
	}
}

func (p *processor) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))

	log.Info("closing processor...")
	p.gp.Stop()
	log.Info("processor is closed")
}

// A groceryEventCodec used for serde [schema.GroceryProductV1]
type groceryEventCodec struct {
	serde Serde
}

func newGroceryEventCodec(s Serde) groceryEventCodec {
	return groceryEventCodec{s}
}

func (c groceryEventCodec) Encode(v any) ([]byte, error) {
	const op = "groceryEventCodec.Encode"
	if _, ok := v.(schema.GroceryProductV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c groceryEventCodec) Decode(data []byte) (any, error) {
	const op = "groceryEventCodec.Decode"
	var s schema.GroceryProductV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A dropEventCodec used for serde [schema.PriceDropV1]
type dropEventCodec struct {
	serde Serde
}

func newDropEventCodec(s Serde) dropEventCodec {
	return dropEventCodec{s}
}

func (c dropEventCodec) Encode(v any) ([]byte, error) {
	const op = "dropEventCodec.Encode"
	if _, ok := v.(schema.PriceDropV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c dropEventCodec) Decode(data []byte) (any, error) {
	const op = "dropEventCodec.Decode"
	var s schema.PriceDropV1
	err := c.serde.Decode(data, &s)
	if err != nil {
		return nil, opErr(err, op)
	}
	return s, err
}

// A lastPrice is the most recent price seen for a particular product id.
type lastPrice float64

// A lastPriceCodec used for serde [lastPrice]
type lastPriceCodec struct{}

func (lastPriceCodec) Encode(v any) ([]byte, error) {
	const op = "lastPriceCodec.Encode"
	pv, ok := v.(lastPrice)
	if !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	data := strconv.AppendFloat([]byte(nil), float64(pv), 'g', -1, 64)
	return data, nil
}

func (lastPriceCodec) Decode(data []byte) (any, error) {
	const op = "lastPriceCodec.Decode"
	pv, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return nil, opErr(err, op)
	}
	return lastPrice(pv), nil
}

// A PriceWatchProcessor keeps the last seen price per product id in the
// group table and emits a price drop event whenever a product arrives
// cheaper than before by at least minDropPercent.
type PriceWatchProcessor struct {
	opPrefix       string
	proc           processor
	outputStream   goka.Stream
	minDropPercent float64
}

func NewPriceWatchProc(
	seedBrokers []string,
	inputStream string,
	outputTopic string,
	group string,
	minDropPercent float64,
	productSerde Serde,
	dropSerde Serde,
) (*PriceWatchProcessor, error) {
	const op = "NewPriceWatchProc"

	var p PriceWatchProcessor

	if minDropPercent < 0 {
		minDropPercent = 0
	}

	outputStream := goka.Stream(outputTopic)

	gg := goka.DefineGroup(goka.Group(group),
		goka.Input(
			goka.Stream(inputStream),
			newGroceryEventCodec(productSerde),
			p.processFn,
		),
		goka.Persist(lastPriceCodec{}),
		goka.Output(outputStream, newDropEventCodec(dropSerde)),
	)

	gp, err := goka.NewProcessor(seedBrokers, gg, withNonlogProcOpt())
	if err != nil {
		return nil, opErr(err, op)
	}

	p.opPrefix = "PriceWatchProcessor"
	p.proc = processor{
		opPrefix: p.opPrefix,
		gp:       gp,
	}
	p.outputStream = outputStream
	p.minDropPercent = minDropPercent
	return &p, nil
}

func (p *PriceWatchProcessor) Run(
	ctx context.Context, stopFn context.CancelFunc, wg *sync.WaitGroup,
) {
	p.proc.run(ctx, stopFn, wg)
}

func (p *PriceWatchProcessor) Close() {
	p.proc.close()
}

func (p *PriceWatchProcessor) processFn(ctx goka.Context, msg any) {
	const op = "processFn"

	productV, _ := msg.(schema.GroceryProductV1)
	log := slog.With(
		"op", makeOp(p.opPrefix, op), "productID", productV.ID,
	)

	current := productV.Price.Amount
	defer ctx.SetValue(lastPrice(current))

	prev, ok := ctx.Value().(lastPrice)
	if !ok || float64(prev) <= 0 || current >= float64(prev) {
		return
	}

	dropPercent := (float64(prev) - current) / float64(prev) * 100
	if dropPercent < p.minDropPercent {
		return
	}

	dropV := schema.PriceDropV1{
		ProductID: productV.ID,
		Name:      productV.Name,
		StoreID:   productV.StoreID,
		OldPrice:  float64(prev),
		NewPrice:  current,
		Currency:  productV.Price.Currency,
		DroppedAt: productV.ScrapedAt,
	}
	ctx.Emit(p.outputStream, ctx.Key(), dropV)
	log.Info(
		"price drop detected",
		"oldPrice", dropV.OldPrice,
		"newPrice", dropV.NewPrice,
	)
}
