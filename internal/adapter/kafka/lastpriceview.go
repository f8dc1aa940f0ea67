package kafka

import (
	"context"
	"log/slog"

	"github.com/lovoo/goka"

	"github.com/trolleyhk/trolley/internal/core/port"
)

var _ port.PriceViewer = (*LastPriceView)(nil)

// A LastPriceView reads the price watch group table and answers
// point lookups for the most recent tracked price of a product id.
type LastPriceView struct {
	gv *goka.View
}

func NewLastPriceView(
	seedBrokers []string, group string,
) (*LastPriceView, error) {
	const op = "NewLastPriceView"

	gv, err := goka.NewView(
		seedBrokers,
		goka.GroupTable(goka.Group(group)),
		lastPriceCodec{},
	)
	if err != nil {
		return nil, opErr(err, op)
	}

	return &LastPriceView{gv}, nil
}

func (v *LastPriceView) Run(ctx context.Context) {
	const op = "LastPriceView.Run"
	log := slog.With("op", op)

	log.Info("running")
	err := v.gv.Run(ctx)
	if err != nil {
		log.Error("unexpected fail on run", "err", err)
	}
}

// LastTrackedPrice returns the last price the watcher recorded for the
// product id. The boolean reports whether the table holds the product.
func (v *LastPriceView) LastTrackedPrice(
	ctx context.Context, productID string,
) (float64, bool, error) {
	const op = "LastPriceView.LastTrackedPrice"

	if err := ctx.Err(); err != nil {
		return 0, false, opErr(err, op)
	}

	value, err := v.gv.Get(productID)
	if err != nil {
		return 0, false, opErr(err, op)
	}

	if value == nil {
		return 0, false, nil
	}

	pv, ok := value.(lastPrice)
	if !ok {
		return 0, false, opErr(ErrInvalidValueType, op)
	}
	return float64(pv), true, nil
}
