package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Tiendas-api/internal/domain/inventory"
)

func TestWeightedAverageCost(t *testing.T) {
	got := inventory.WeightedAverageCost(10, decimal.NewFromInt(4), 10, decimal.NewFromInt(6))
	assert.True(t, got.Equal(decimal.NewFromInt(5)), "got %s", got)
}

func TestWeightedAverageCost_SinStockPrevio(t *testing.T) {
	got := inventory.WeightedAverageCost(0, decimal.NewFromInt(4), 3, decimal.RequireFromString("2.5"))
	assert.True(t, got.Equal(decimal.RequireFromString("2.5")))

	got = inventory.WeightedAverageCost(-2, decimal.NewFromInt(4), 3, decimal.NewFromInt(7))
	assert.True(t, got.Equal(decimal.NewFromInt(7)))
}

func TestWeightedAverageCost_EntradaNulaNoCambia(t *testing.T) {
	got := inventory.WeightedAverageCost(5, decimal.NewFromInt(4), 0, decimal.NewFromInt(100))
	assert.True(t, got.Equal(decimal.NewFromInt(4)))
}

func TestReverseWeightedAverageCost_DeshaceLaEntrada(t *testing.T) {
	cost := inventory.WeightedAverageCost(10, decimal.NewFromInt(6), 5, decimal.NewFromInt(12))
	require.True(t, cost.Equal(decimal.NewFromInt(8)), "got %s", cost)

	got := inventory.ReverseWeightedAverageCost(15, cost, 5, decimal.NewFromInt(12))
	assert.True(t, got.Equal(decimal.NewFromInt(6)), "got %s", got)
}

func TestReverseWeightedAverageCost_SinRemanenteConserva(t *testing.T) {
	got := inventory.ReverseWeightedAverageCost(5, decimal.NewFromInt(8), 5, decimal.NewFromInt(12))
	assert.True(t, got.Equal(decimal.NewFromInt(8)))

	got = inventory.ReverseWeightedAverageCost(6, decimal.NewFromInt(2), 3, decimal.NewFromInt(50))
	assert.True(t, got.Equal(decimal.NewFromInt(2)), "un promedio negativo no se aplica")
}
