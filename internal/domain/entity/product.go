package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del inventario del usuario.
// StockQuantity es el saldo autoritativo; solo lo avanza el motor de movimientos,
// nunca la edición directa del producto. CostPrice es el costo base opcional
// (0 = sin costo registrado).
type Product struct {
	ID            string
	UserID        string // dueño del producto
	SKU           string // único por usuario
	Name          string
	Description   string
	Price         decimal.Decimal // precio de venta
	CostPrice     decimal.Decimal // costo base para movimientos sin unit_cost explícito
	StockQuantity decimal.Decimal // saldo actual; igual al quantity_after del último movimiento aceptado
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
