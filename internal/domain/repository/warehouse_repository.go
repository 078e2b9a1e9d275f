package repository

import "github.com/tu-usuario/stock-ledger-api/internal/domain/entity"

// WarehouseRepository define el puerto de persistencia para Warehouse (DIP).
type WarehouseRepository interface {
	Create(warehouse *entity.Warehouse) error
	GetByID(id string) (*entity.Warehouse, error)
	// GetLatestByUser devuelve la bodega más reciente del usuario (nil si no tiene).
	// El motor de movimientos no recibe selector de bodega del caller.
	GetLatestByUser(userID string) (*entity.Warehouse, error)
	Update(warehouse *entity.Warehouse) error
	ListByUser(userID string, limit, offset int) ([]*entity.Warehouse, error)
	Delete(id string) error
}
