package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger-api/internal/domain"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
)

// Evaluation es el resultado de evaluar un cambio de stock contra el saldo actual
// de un producto. Invariante: QuantityAfter = QuantityBefore + cambio, nunca negativo.
type Evaluation struct {
	QuantityBefore decimal.Decimal
	QuantityAfter  decimal.Decimal
	MovementType   string // in | out
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal // |cambio| * UnitCost
}

// InsufficientStockError indica que el cambio dejaría el saldo negativo.
// Lleva el nombre del producto y el saldo actual para el mensaje de error.
type InsufficientStockError struct {
	ProductName  string
	CurrentStock decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s. Stock actual: %s", e.ProductName, e.CurrentStock)
}

// Unwrap permite errors.Is(err, domain.ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error {
	return domain.ErrInsufficientStock
}

// EvaluateMovement calcula el movimiento candidato para un cambio solicitado (función pura).
// quantityChange debe ser distinto de cero (garantizado por la validación de entrada).
// Costo unitario: unitCost explícito si viene, si no el CostPrice del producto (0 si no tiene).
func EvaluateMovement(product *entity.Product, quantityChange decimal.Decimal, unitCost *decimal.Decimal) (*Evaluation, error) {
	before := product.StockQuantity
	after := before.Add(quantityChange)
	if after.IsNegative() {
		return nil, &InsufficientStockError{ProductName: product.Name, CurrentStock: before}
	}

	cost := product.CostPrice
	if unitCost != nil {
		cost = *unitCost
	}

	movementType := entity.MovementTypeOut
	if quantityChange.IsPositive() {
		movementType = entity.MovementTypeIn
	}

	return &Evaluation{
		QuantityBefore: before,
		QuantityAfter:  after,
		MovementType:   movementType,
		UnitCost:       cost,
		TotalCost:      quantityChange.Abs().Mul(cost),
	}, nil
}
