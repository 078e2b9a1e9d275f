package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los métodos *ByUser restringen por dueño; devuelven nil (sin error) si no existe
// o pertenece a otro usuario.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByIDAndUser(id, userID string) (*entity.Product, error)
	// GetForUpdateByUser bloquea la fila del producto (SELECT FOR UPDATE) para que
	// un solo lote posea el saldo durante su commit.
	GetForUpdateByUser(id, userID string) (*entity.Product, error)
	GetByUserAndSKU(userID, sku string) (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock fija el saldo del producto; usado solo por el motor de movimientos.
	UpdateStock(productID string, quantity decimal.Decimal) error
	ListByUser(userID string, limit, offset int) ([]*entity.Product, error)
	Delete(id string) error
}
