package ui

import (
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trolleyhk/trolley/internal/core/domain"
	"github.com/trolleyhk/trolley/internal/core/search"
)

func product(id, name string, amount, qty float64, unit string) domain.Product {
	return domain.Product{
		ProductID: id,
		Name:      name,
		Brand:     "Kowloon Dairy",
		Category:  "Dairy",
		Price:     domain.ProductPrice{Amount: amount, Currency: "HKD"},
		PackSize:  domain.PackSize{Quantity: qty, Unit: unit},
	}
}

func TestFormatPrice(t *testing.T) {
	t.Run("WithCurrency", func(t *testing.T) {
		got := formatPrice(domain.ProductPrice{Amount: 23.5, Currency: "HKD"})

		assert.Equal(t, "HKD 23.50", got)
	})

	t.Run("WithoutCurrency", func(t *testing.T) {
		got := formatPrice(domain.ProductPrice{Amount: 9.9})

		assert.Equal(t, "9.90", got)
	})
}

func TestFormatPack(t *testing.T) {
	t.Run("QuantityAndUnit", func(t *testing.T) {
		got := formatPack(domain.PackSize{Quantity: 946, Unit: "ml"})

		assert.Equal(t, "946 ml", got)
	})

	t.Run("FractionalQuantity", func(t *testing.T) {
		got := formatPack(domain.PackSize{Quantity: 1.5, Unit: "l"})

		assert.Equal(t, "1.5 l", got)
	})

	t.Run("MissingQuantity", func(t *testing.T) {
		got := formatPack(domain.PackSize{Unit: "ml"})

		assert.Equal(t, "-", got)
	})

	t.Run("MissingUnit", func(t *testing.T) {
		got := formatPack(domain.PackSize{Quantity: 6})

		assert.Equal(t, "6", got)
	})
}

func TestFormatUnitPrice(t *testing.T) {
	t.Run("PerUnit", func(t *testing.T) {
		p := product("BP_103625", "Fresh Milk", 23.5, 946, "ml")

		assert.Equal(t, "0.025/ml", formatUnitPrice(p))
	})

	t.Run("NoPackSize", func(t *testing.T) {
		p := product("BP_103625", "Fresh Milk", 23.5, 0, "")

		assert.Equal(t, "-", formatUnitPrice(p))
	})
}

func TestBestValueID(t *testing.T) {
	t.Run("LowestUnitPriceWins", func(t *testing.T) {
		ps := []domain.Product{
			product("small", "Milk 500ml", 12, 500, "ml"),
			product("large", "Milk 1l", 15, 1000, "ml"),
		}

		assert.Equal(t, "large", bestValueID(ps))
	})

	t.Run("SkipsProductsWithoutPackSize", func(t *testing.T) {
		ps := []domain.Product{
			product("unsized", "Mystery Box", 1, 0, ""),
			product("sized", "Milk 1l", 15, 1000, "ml"),
		}

		assert.Equal(t, "sized", bestValueID(ps))
	})

	t.Run("TieKeepsEarlierSelection", func(t *testing.T) {
		ps := []domain.Product{
			product("first", "Milk 500ml", 10, 500, "ml"),
			product("second", "Milk 1l", 20, 1000, "ml"),
		}

		assert.Equal(t, "first", bestValueID(ps))
	})

	t.Run("NothingComparable", func(t *testing.T) {
		ps := []domain.Product{product("unsized", "Mystery Box", 1, 0, "")}

		assert.Equal(t, "", bestValueID(ps))
	})
}

func TestTableRows(t *testing.T) {
	ps := []domain.Product{product("BP_103625", "Fresh Milk", 23.5, 946, "ml")}

	rows := tableRows(ps)

	require.Len(t, rows, 1)
	assert.Equal(t, table.Row{
		"Fresh Milk",
		"Kowloon Dairy",
		"Dairy",
		"HKD 23.50",
		"946 ml",
		"0.025/ml",
	}, rows[0])
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "a long ...", truncate("a long product name", 10))
}

func TestToggleCompare(t *testing.T) {
	load := func(t *testing.T, ps []domain.Product) Model {
		t.Helper()

		m := NewModel(nil, search.ModeClient)
		seq := m.ctrl.BeginLoad()
		require.True(t, m.ctrl.ApplyLoad(seq, ps, nil))
		m.syncRows()
		return m
	}

	t.Run("AddsAndRemovesSelection", func(t *testing.T) {
		m := load(t, []domain.Product{
			product("a", "Milk", 23.5, 946, "ml"),
		})

		m.toggleCompare()
		assert.Contains(t, m.compare, "a")
		assert.Equal(t, []string{"a"}, m.compareOrder)

		m.toggleCompare()
		assert.NotContains(t, m.compare, "a")
		assert.Empty(t, m.compareOrder)
	})

	t.Run("CapsSelection", func(t *testing.T) {
		m := load(t, []domain.Product{
			product("a", "Milk", 23.5, 946, "ml"),
			product("b", "Yogurt", 11, 150, "g"),
			product("c", "Butter", 42, 250, "g"),
			product("d", "Cheese", 65, 200, "g"),
		})

		for i := 0; i < 4; i++ {
			m.tbl.SetCursor(i)
			m.toggleCompare()
		}

		assert.Equal(t, []string{"a", "b", "c"}, m.compareOrder)
	})
}
