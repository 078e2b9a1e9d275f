package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
)

// BulkMovementItemRequest un cambio de stock solicitado dentro del lote.
type BulkMovementItemRequest struct {
	ProductID      string           `json:"product_id"`
	QuantityChange decimal.Decimal  `json:"quantity_change"` // con signo, distinto de cero
	SourceType     string           `json:"source_type"`
	UnitCost       *decimal.Decimal `json:"unit_cost,omitempty"`
	Notes          string           `json:"notes,omitempty"`
}

// BulkMovementRequest body para POST /api/inventory/movements/bulk.
type BulkMovementRequest struct {
	MovementDate string                    `json:"movement_date"`
	Notes        string                    `json:"notes,omitempty"`
	StockItems   []BulkMovementItemRequest `json:"stock_items"`
}

// Formatos aceptados para movement_date, en orden de prueba.
var movementDateLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

// ParseMovementDate interpreta movement_date.
func (r *BulkMovementRequest) ParseMovementDate() (time.Time, error) {
	for _, layout := range movementDateLayouts {
		if t, err := time.Parse(layout, r.MovementDate); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("fecha inválida: %q", r.MovementDate)
}

// Validate verifica el lote campo a campo y devuelve los errores de validación
// (vacío si el lote es válido). Se ejecuta antes de tocar almacenamiento.
func (r *BulkMovementRequest) Validate() []string {
	var errs []string
	if r.MovementDate == "" {
		errs = append(errs, "movement_date: es requerido")
	} else if _, err := r.ParseMovementDate(); err != nil {
		errs = append(errs, "movement_date: formato de fecha inválido")
	}
	if len(r.StockItems) == 0 {
		errs = append(errs, "stock_items: debe contener al menos un item")
		return errs
	}
	for i, item := range r.StockItems {
		if item.ProductID == "" {
			errs = append(errs, fmt.Sprintf("stock_items.%d.product_id: es requerido", i))
		}
		if item.QuantityChange.IsZero() {
			errs = append(errs, fmt.Sprintf("stock_items.%d.quantity_change: debe ser distinto de cero", i))
		}
		if item.SourceType == "" {
			errs = append(errs, fmt.Sprintf("stock_items.%d.source_type: es requerido", i))
		} else if !entity.ValidSourceType(item.SourceType) {
			errs = append(errs, fmt.Sprintf("stock_items.%d.source_type: valor no soportado %q", i, item.SourceType))
		}
		if item.UnitCost != nil && item.UnitCost.IsNegative() {
			errs = append(errs, fmt.Sprintf("stock_items.%d.unit_cost: debe ser mayor o igual a cero", i))
		}
	}
	return errs
}

// StockMovementResponse un asiento del libro, expandido con su producto y bodega.
// product_name y product_sku son el snapshot histórico del asiento, no el estado
// actual del producto.
type StockMovementResponse struct {
	ID             string             `json:"id"`
	ProductID      string             `json:"product_id"`
	WarehouseID    string             `json:"warehouse_id"`
	ProductName    string             `json:"product_name"`
	ProductSKU     string             `json:"product_sku"`
	QuantityBefore decimal.Decimal    `json:"quantity_before"`
	QuantityChange decimal.Decimal    `json:"quantity_change"`
	QuantityAfter  decimal.Decimal    `json:"quantity_after"`
	MovementType   string             `json:"movement_type"`
	SourceType     string             `json:"source_type"`
	UnitCost       decimal.Decimal    `json:"unit_cost"`
	TotalCost      decimal.Decimal    `json:"total_cost"`
	Notes          string             `json:"notes,omitempty"`
	MovementDate   time.Time          `json:"movement_date"`
	IPAddress      string             `json:"ip_address,omitempty"`
	UserAgent      string             `json:"user_agent,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	Product        *ProductResponse   `json:"product,omitempty"`
	Warehouse      *WarehouseResponse `json:"warehouse,omitempty"`
}

// BulkMovementData payload de un lote confirmado.
type BulkMovementData struct {
	StockMovements []StockMovementResponse `json:"stock_movements"`
	CreatedCount   int                     `json:"created_count"`
	TotalItems     int                     `json:"total_items"`
}

// BulkMovementResponse respuesta del endpoint de lote. En fallo total: Success=false
// y Errors con un mensaje por item fallido. En éxito (total o parcial): Data con los
// asientos creados y, si hubo items saltados, Warnings con la misma forma que Errors.
type BulkMovementResponse struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message"`
	Data     *BulkMovementData `json:"data,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// MovementListResponse historial de movimientos.
type MovementListResponse struct {
	Items []StockMovementResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// ToStockMovementResponse mapea un asiento (sin expandir).
func ToStockMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		WarehouseID:    m.WarehouseID,
		ProductName:    m.ProductName,
		ProductSKU:     m.ProductSKU,
		QuantityBefore: m.QuantityBefore,
		QuantityChange: m.QuantityChange,
		QuantityAfter:  m.QuantityAfter,
		MovementType:   m.MovementType,
		SourceType:     m.SourceType,
		UnitCost:       m.UnitCost,
		TotalCost:      m.TotalCost,
		Notes:          m.Notes,
		MovementDate:   m.MovementDate,
		IPAddress:      m.IPAddress,
		UserAgent:      m.UserAgent,
		CreatedAt:      m.CreatedAt,
	}
}
