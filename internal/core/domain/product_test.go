package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trolleyhk/trolley/internal/core/domain"
)

func TestParsePackSize(t *testing.T) {
	t.Run("QuantityThenUnit", func(t *testing.T) {
		ps, ok := domain.ParsePackSize("165 g")
		require.True(t, ok)
		assert.Equal(t, 165.0, ps.Quantity)
		assert.Equal(t, "g", ps.Unit)
	})

	t.Run("NoSpaceAndFraction", func(t *testing.T) {
		ps, ok := domain.ParsePackSize("1.5L")
		require.True(t, ok)
		assert.Equal(t, 1.5, ps.Quantity)
		assert.Equal(t, "l", ps.Unit)
	})

	t.Run("RetailerLabelPrefix", func(t *testing.T) {
		ps, ok := domain.ParsePackSize("Pack size - 330ml")
		require.True(t, ok)
		assert.Equal(t, 330.0, ps.Quantity)
		assert.Equal(t, "ml", ps.Unit)
	})

	t.Run("IgnoresTrailingText", func(t *testing.T) {
		ps, ok := domain.ParsePackSize("500 g net weight")
		require.True(t, ok)
		assert.Equal(t, 500.0, ps.Quantity)
		assert.Equal(t, "g", ps.Unit)
	})

	t.Run("UnitFirstIsUnparseable", func(t *testing.T) {
		_, ok := domain.ParsePackSize("per lb")
		assert.False(t, ok)
	})

	t.Run("QuantityWithoutUnit", func(t *testing.T) {
		_, ok := domain.ParsePackSize("12")
		assert.False(t, ok)
	})

	t.Run("Empty", func(t *testing.T) {
		_, ok := domain.ParsePackSize("")
		assert.False(t, ok)
	})
}

func TestUnitPrice(t *testing.T) {
	t.Run("PerUnit", func(t *testing.T) {
		p := domain.Product{
			Price:    domain.ProductPrice{Amount: 33.0, Currency: "HKD"},
			PackSize: domain.PackSize{Quantity: 330, Unit: "ml"},
		}
		v, ok := p.UnitPrice()
		require.True(t, ok)
		assert.InDelta(t, 0.1, v, 1e-9)
	})

	t.Run("NoPackSize", func(t *testing.T) {
		p := domain.Product{Price: domain.ProductPrice{Amount: 33.0}}
		_, ok := p.UnitPrice()
		assert.False(t, ok)
	})
}

func TestIDFromURL(t *testing.T) {
	got := domain.IDFromURL("https://www.pns.hk/en/p/BP_103625")
	assert.Equal(t, "https___www.pns.hk_en_p_BP_103625", got)
}

func TestPriceDropPercent(t *testing.T) {
	t.Run("TwentyPercent", func(t *testing.T) {
		d := domain.PriceDrop{OldPrice: 100, NewPrice: 80}
		assert.InDelta(t, 20.0, d.Percent(), 1e-9)
	})

	t.Run("ZeroOldPrice", func(t *testing.T) {
		d := domain.PriceDrop{OldPrice: 0, NewPrice: 80}
		assert.Zero(t, d.Percent())
	})
}
