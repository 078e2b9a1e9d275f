package repository

import (
	"time"

	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para el libro de movimientos.
// Los asientos son inmutables: solo Create y lecturas.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByUser(userID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
