package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento, derivados del signo de QuantityChange.
const (
	MovementTypeIn  = "in"  // entrada
	MovementTypeOut = "out" // salida
)

// Motivos de negocio de un movimiento (source_type). Conjunto cerrado,
// compartido entre validación y lógica de negocio.
const (
	SourceTypePurchase         = "purchase"
	SourceTypeSale             = "sale"
	SourceTypeManualAdjustment = "manual_adjustment"
	SourceTypeReturnIn         = "return_in"
	SourceTypeReturnOut        = "return_out"
	SourceTypeTransferIn       = "transfer_in"
	SourceTypeTransferOut      = "transfer_out"
	SourceTypeDamage           = "damage"
	SourceTypeExpired          = "expired"
	SourceTypeLost             = "lost"
	SourceTypeFound            = "found"
	SourceTypeInitialStock     = "initial_stock"
	SourceTypeOther            = "other"
)

var sourceTypes = map[string]struct{}{
	SourceTypePurchase:         {},
	SourceTypeSale:             {},
	SourceTypeManualAdjustment: {},
	SourceTypeReturnIn:         {},
	SourceTypeReturnOut:        {},
	SourceTypeTransferIn:       {},
	SourceTypeTransferOut:      {},
	SourceTypeDamage:           {},
	SourceTypeExpired:          {},
	SourceTypeLost:             {},
	SourceTypeFound:            {},
	SourceTypeInitialStock:     {},
	SourceTypeOther:            {},
}

// ValidSourceType reporta si s pertenece al conjunto de motivos soportados.
func ValidSourceType(s string) bool {
	_, ok := sourceTypes[s]
	return ok
}

// StockMovement es un asiento inmutable del libro de movimientos: captura el saldo
// antes y después del cambio. ProductName y ProductSKU son snapshots históricos al
// momento de escribir; no se sincronizan con renombres posteriores del producto.
type StockMovement struct {
	ID             string
	UserID         string // dueño del asiento
	ProductID      string
	WarehouseID    string
	ProductName    string // snapshot
	ProductSKU     string // snapshot
	QuantityBefore decimal.Decimal
	QuantityChange decimal.Decimal // con signo, nunca cero
	QuantityAfter  decimal.Decimal // QuantityBefore + QuantityChange, nunca negativo
	MovementType   string          // in | out
	SourceType     string
	UnitCost       decimal.Decimal
	TotalCost      decimal.Decimal // |QuantityChange| * UnitCost
	Notes          string
	MovementDate   time.Time
	IPAddress      string // procedencia de la petición
	UserAgent      string
	CreatedAt      time.Time
}
