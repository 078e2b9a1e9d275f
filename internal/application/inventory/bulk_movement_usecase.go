package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger-api/internal/domain"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/inventory"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/repository"
)

// BulkMovementUseCase registra un lote de movimientos de stock en una sola transacción.
// Semántica mixta: la transacción es todo-o-nada a nivel de almacenamiento, pero el
// resultado de negocio admite éxito parcial — los items inválidos se saltan con un
// error posicional y solo se revierte todo cuando ningún item fue aceptado.
type BulkMovementUseCase struct {
	txRunner TxRunner
}

// NewBulkMovementUseCase construye el caso de uso.
func NewBulkMovementUseCase(txRunner TxRunner) *BulkMovementUseCase {
	return &BulkMovementUseCase{txRunner: txRunner}
}

// BulkMovementItem es un cambio de stock solicitado para un producto.
type BulkMovementItem struct {
	ProductID      string
	QuantityChange decimal.Decimal // con signo, distinto de cero
	SourceType     string
	UnitCost       *decimal.Decimal // nil = usar CostPrice del producto
	Notes          string           // vacío = usar las notas del lote
}

// BulkMovementInput entrada del lote. IPAddress y UserAgent son la procedencia de la
// petición; se copian tal cual a cada asiento creado.
type BulkMovementInput struct {
	UserID       string
	MovementDate time.Time
	Notes        string
	Items        []BulkMovementItem
	IPAddress    string
	UserAgent    string
}

// CreatedMovement es un asiento creado junto con el producto al que quedó asociado,
// para que la capa de presentación pueda expandirlo sin volver a consultar.
type CreatedMovement struct {
	Movement *entity.StockMovement
	Product  *entity.Product
}

// BulkMovementResult resultado agregado de un lote confirmado (total o parcialmente).
type BulkMovementResult struct {
	Warehouse  *entity.Warehouse
	Created    []CreatedMovement
	Warnings   []string // errores posicionales no fatales
	TotalItems int
}

// BulkFailedError se devuelve cuando todos los items del lote fallaron: la transacción
// se revierte y el caller recibe la lista completa de errores posicionales.
type BulkFailedError struct {
	Errors []string
}

func (e *BulkFailedError) Error() string {
	return fmt.Sprintf("no se pudo crear ningún movimiento de stock (%d errores)", len(e.Errors))
}

// RegisterBulk procesa el lote: resuelve la bodega del usuario, evalúa cada item en
// orden contra el saldo vigente (los items posteriores ven el efecto de los anteriores)
// y decide commit o rollback. Devuelve BulkFailedError si ningún item fue aceptado y
// domain.ErrWarehouseNotFound si el usuario no tiene bodega.
func (uc *BulkMovementUseCase) RegisterBulk(ctx context.Context, input BulkMovementInput) (*BulkMovementResult, error) {
	if input.UserID == "" || input.MovementDate.IsZero() || len(input.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	var result *BulkMovementResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		warehouse, err := warehouseRepo.GetLatestByUser(input.UserID)
		if err != nil {
			return err
		}
		if warehouse == nil {
			return domain.ErrWarehouseNotFound
		}

		var created []CreatedMovement
		var itemErrors []string

		for i, item := range input.Items {
			product, eval, err := uc.evaluateItem(productRepo, input.UserID, item)
			if err != nil {
				// Frontera de error por item: un item inválido nunca aborta el lote.
				itemErrors = append(itemErrors, itemError(i, err))
				continue
			}
			mov, err := uc.commitMovement(movRepo, productRepo, warehouse, product, eval, input, item)
			if err != nil {
				// Falla al persistir: dejaría un asiento sin su saldo; aborta todo el lote.
				return err
			}
			created = append(created, CreatedMovement{Movement: mov, Product: product})
		}

		if len(created) == 0 && len(itemErrors) > 0 {
			return &BulkFailedError{Errors: itemErrors}
		}

		result = &BulkMovementResult{
			Warehouse:  warehouse,
			Created:    created,
			Warnings:   itemErrors,
			TotalItems: len(input.Items),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// evaluateItem resuelve el producto del dueño (con bloqueo de fila) y evalúa el
// movimiento candidato. Sus errores quedan dentro de la frontera por item.
func (uc *BulkMovementUseCase) evaluateItem(
	productRepo repository.ProductRepository,
	userID string,
	item BulkMovementItem,
) (*entity.Product, *inventory.Evaluation, error) {
	product, err := productRepo.GetForUpdateByUser(item.ProductID, userID)
	if err != nil {
		return nil, nil, err
	}
	if product == nil {
		return nil, nil, domain.ErrNotFound
	}
	eval, err := inventory.EvaluateMovement(product, item.QuantityChange, item.UnitCost)
	if err != nil {
		return nil, nil, err
	}
	return product, eval, nil
}

// commitMovement persiste el asiento inmutable (con snapshot de nombre/SKU y
// procedencia) y avanza el saldo del producto a QuantityAfter, dentro de la tx del lote.
func (uc *BulkMovementUseCase) commitMovement(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	warehouse *entity.Warehouse,
	product *entity.Product,
	eval *inventory.Evaluation,
	input BulkMovementInput,
	item BulkMovementItem,
) (*entity.StockMovement, error) {
	notes := item.Notes
	if notes == "" {
		notes = input.Notes
	}
	mov := &entity.StockMovement{
		ID:             uuid.New().String(),
		UserID:         input.UserID,
		ProductID:      product.ID,
		WarehouseID:    warehouse.ID,
		ProductName:    product.Name,
		ProductSKU:     product.SKU,
		QuantityBefore: eval.QuantityBefore,
		QuantityChange: item.QuantityChange,
		QuantityAfter:  eval.QuantityAfter,
		MovementType:   eval.MovementType,
		SourceType:     item.SourceType,
		UnitCost:       eval.UnitCost,
		TotalCost:      eval.TotalCost,
		Notes:          notes,
		MovementDate:   input.MovementDate,
		IPAddress:      input.IPAddress,
		UserAgent:      input.UserAgent,
		CreatedAt:      time.Now(),
	}
	if err := movRepo.Create(mov); err != nil {
		return nil, err
	}
	if err := productRepo.UpdateStock(product.ID, eval.QuantityAfter); err != nil {
		return nil, err
	}
	product.StockQuantity = eval.QuantityAfter
	return mov, nil
}

// itemError formatea un error posicional (índice del item en el lote, base 0).
func itemError(index int, err error) string {
	var insufficientErr *inventory.InsufficientStockError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("Item %d: producto no encontrado o acceso denegado", index)
	case errors.As(err, &insufficientErr):
		return fmt.Sprintf("Item %d: %s", index, insufficientErr.Error())
	default:
		return fmt.Sprintf("Item %d: %v", index, err)
	}
}
