package http

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/stock-ledger-api/internal/application/dto"
	"github.com/tu-usuario/stock-ledger-api/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger-api/internal/domain"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de stock (protegido).
type InventoryHandler struct {
	bulk    *inventory.BulkMovementUseCase
	history *inventory.HistoryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(bulk *inventory.BulkMovementUseCase, history *inventory.HistoryUseCase) *InventoryHandler {
	return &InventoryHandler{bulk: bulk, history: history}
}

// StoreBulk godoc
// @Summary      Registrar lote de movimientos de stock
// @Description  Procesa el lote en una sola transacción contra la bodega más reciente
//
//	del usuario. Los items inválidos se saltan con un error posicional; solo
//	si ningún item fue aceptado se revierte todo el lote.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkMovementRequest  true  "movement_date, notes, stock_items"
// @Success      201   {object}  dto.BulkMovementResponse
// @Failure      404   {object}  dto.BulkMovementResponse
// @Failure      422   {object}  dto.BulkMovementResponse
// @Router       /api/inventory/movements/bulk [post]
func (h *InventoryHandler) StoreBulk(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.BulkMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	// Validación de campos: rechaza antes de tocar almacenamiento.
	if errs := in.Validate(); len(errs) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.BulkMovementResponse{
			Success: false,
			Message: "Validación fallida.",
			Errors:  errs,
		})
	}
	movementDate, _ := in.ParseMovementDate()

	items := make([]inventory.BulkMovementItem, 0, len(in.StockItems))
	for _, it := range in.StockItems {
		items = append(items, inventory.BulkMovementItem{
			ProductID:      it.ProductID,
			QuantityChange: it.QuantityChange,
			SourceType:     it.SourceType,
			UnitCost:       it.UnitCost,
			Notes:          it.Notes,
		})
	}

	result, err := h.bulk.RegisterBulk(c.Context(), inventory.BulkMovementInput{
		UserID:       userID,
		MovementDate: movementDate,
		Notes:        in.Notes,
		Items:        items,
		IPAddress:    c.IP(),
		UserAgent:    c.Get("User-Agent"),
	})
	if err != nil {
		var bulkErr *inventory.BulkFailedError
		switch {
		case errors.Is(err, domain.ErrWarehouseNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.BulkMovementResponse{
				Success: false,
				Message: "Bodega no encontrada o acceso denegado.",
			})
		case errors.As(err, &bulkErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.BulkMovementResponse{
				Success: false,
				Message: "No se pudo crear ningún movimiento de stock.",
				Errors:  bulkErr.Errors,
			})
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.BulkMovementResponse{
				Success: false,
				Message: "Validación fallida.",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(dto.BulkMovementResponse{
				Success: false,
				Message: "No se pudo procesar el lote de movimientos.",
				Errors:  []string{err.Error()},
			})
		}
	}

	warehouse := dto.ToWarehouseResponse(result.Warehouse)
	movements := make([]dto.StockMovementResponse, 0, len(result.Created))
	for _, cm := range result.Created {
		mov := dto.ToStockMovementResponse(cm.Movement)
		mov.Product = dto.ToProductResponse(cm.Product)
		mov.Warehouse = warehouse
		movements = append(movements, mov)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.BulkMovementResponse{
		Success: true,
		Message: fmt.Sprintf("%d movimientos de stock creados.", len(result.Created)),
		Data: &dto.BulkMovementData{
			StockMovements: movements,
			CreatedCount:   len(result.Created),
			TotalItems:     result.TotalItems,
		},
		Warnings: result.Warnings,
	})
}

// ListMovements godoc
// @Summary      Historial de movimientos
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto (UUID)"
// @Param        from        query  string  false  "Fecha desde (RFC3339 o YYYY-MM-DD)"
// @Param        to          query  string  false  "Fecha hasta (RFC3339 o YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: formato de fecha inválido"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: formato de fecha inválido"})
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	list, err := h.history.List(userID, productID, from, to, limit, offset)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	items := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.ToStockMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	})
}

func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("fecha inválida: %q", s)
}
