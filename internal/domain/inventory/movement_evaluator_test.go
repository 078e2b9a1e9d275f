package inventory

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/stock-ledger-api/internal/domain"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
)

func producto(stock, costPrice string) *entity.Product {
	return &entity.Product{
		ID:            "prod-1",
		UserID:        "user-1",
		SKU:           "SKU-001",
		Name:          "Tornillo 3mm",
		CostPrice:     decimal.RequireFromString(costPrice),
		StockQuantity: decimal.RequireFromString(stock),
	}
}

func TestEvaluateMovement_Entrada(t *testing.T) {
	p := producto("0", "2.5")

	eval, err := EvaluateMovement(p, decimal.RequireFromString("10"), nil)
	require.NoError(t, err)

	assert.True(t, eval.QuantityBefore.Equal(decimal.Zero))
	assert.True(t, eval.QuantityAfter.Equal(decimal.RequireFromString("10")))
	assert.Equal(t, entity.MovementTypeIn, eval.MovementType)
	assert.True(t, eval.UnitCost.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, eval.TotalCost.Equal(decimal.RequireFromString("25")))
}

func TestEvaluateMovement_SalidaExitosa(t *testing.T) {
	p := producto("10", "2.5")

	eval, err := EvaluateMovement(p, decimal.RequireFromString("-4"), nil)
	require.NoError(t, err)

	assert.True(t, eval.QuantityAfter.Equal(decimal.RequireFromString("6")))
	assert.Equal(t, entity.MovementTypeOut, eval.MovementType)
	// TotalCost usa el valor absoluto del cambio
	assert.True(t, eval.TotalCost.Equal(decimal.RequireFromString("10")))
}

func TestEvaluateMovement_StockInsuficiente(t *testing.T) {
	p := producto("3", "1")

	eval, err := EvaluateMovement(p, decimal.RequireFromString("-5"), nil)
	require.Error(t, err)
	assert.Nil(t, eval)

	// El error es identificable por sentinel y lleva el contexto para el mensaje
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	var insufficientErr *InsufficientStockError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, "Tornillo 3mm", insufficientErr.ProductName)
	assert.True(t, insufficientErr.CurrentStock.Equal(decimal.RequireFromString("3")))

	// El producto no se modifica: la evaluación es pura
	assert.True(t, p.StockQuantity.Equal(decimal.RequireFromString("3")))
}

func TestEvaluateMovement_SalidaHastaCero(t *testing.T) {
	p := producto("5", "1")

	eval, err := EvaluateMovement(p, decimal.RequireFromString("-5"), nil)
	require.NoError(t, err)
	assert.True(t, eval.QuantityAfter.IsZero())
}

func TestEvaluateMovement_CostoExplicitoTienePrioridad(t *testing.T) {
	p := producto("10", "2.5")
	unitCost := decimal.RequireFromString("3.75")

	eval, err := EvaluateMovement(p, decimal.RequireFromString("2"), &unitCost)
	require.NoError(t, err)

	assert.True(t, eval.UnitCost.Equal(unitCost))
	assert.True(t, eval.TotalCost.Equal(decimal.RequireFromString("7.5")))
}

func TestEvaluateMovement_SinCostoUsaCero(t *testing.T) {
	p := producto("10", "0")

	eval, err := EvaluateMovement(p, decimal.RequireFromString("-1"), nil)
	require.NoError(t, err)

	assert.True(t, eval.UnitCost.IsZero())
	assert.True(t, eval.TotalCost.IsZero())
}

func TestEvaluateMovement_CantidadesFraccionarias(t *testing.T) {
	p := producto("2.5", "4")

	eval, err := EvaluateMovement(p, decimal.RequireFromString("-1.25"), nil)
	require.NoError(t, err)

	assert.True(t, eval.QuantityAfter.Equal(decimal.RequireFromString("1.25")))
	assert.True(t, eval.TotalCost.Equal(decimal.RequireFromString("5")))
}
