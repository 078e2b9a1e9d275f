package inventory

import (
	"time"

	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/repository"
)

// HistoryUseCase consulta el libro de movimientos (solo lectura; los asientos son
// inmutables y los snapshots de nombre/SKU se muestran tal cual fueron escritos).
type HistoryUseCase struct {
	movRepo     repository.StockMovementRepository
	productRepo repository.ProductRepository
}

// NewHistoryUseCase construye el caso de uso de historial.
func NewHistoryUseCase(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) *HistoryUseCase {
	return &HistoryUseCase{movRepo: movRepo, productRepo: productRepo}
}

// List devuelve los movimientos del usuario, opcionalmente filtrados por producto y
// rango de fechas. Si productID viene, se verifica que el producto sea del usuario.
func (uc *HistoryUseCase) List(userID, productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return uc.movRepo.ListByUser(userID, from, to, limit, offset)
	}
	product, err := uc.productRepo.GetByIDAndUser(productID, userID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return []*entity.StockMovement{}, nil
	}
	return uc.movRepo.ListByProduct(productID, from, to, limit, offset)
}
