package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/stock-ledger-api/internal/application/dto"
	"github.com/tu-usuario/stock-ledger-api/internal/domain"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/repository"
)

// WarehouseUseCase casos de uso CRUD para bodegas.
type WarehouseUseCase struct {
	repo repository.WarehouseRepository
}

// NewWarehouseUseCase construye el caso de uso.
func NewWarehouseUseCase(repo repository.WarehouseRepository) *WarehouseUseCase {
	return &WarehouseUseCase{repo: repo}
}

// Create crea una nueva bodega del usuario.
func (uc *WarehouseUseCase) Create(userID string, in dto.CreateWarehouseRequest) (*dto.WarehouseResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	warehouse := &entity.Warehouse{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      in.Name,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(warehouse); err != nil {
		return nil, err
	}
	return dto.ToWarehouseResponse(warehouse), nil
}

// GetByID obtiene una bodega del usuario (nil si no existe o es de otro).
func (uc *WarehouseUseCase) GetByID(userID, id string) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.UserID != userID {
		return nil, nil
	}
	return dto.ToWarehouseResponse(warehouse), nil
}

// Update actualiza una bodega del usuario.
func (uc *WarehouseUseCase) Update(userID, id string, in dto.UpdateWarehouseRequest) (*dto.WarehouseResponse, error) {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if warehouse == nil || warehouse.UserID != userID {
		return nil, nil
	}
	if in.Name != nil {
		warehouse.Name = *in.Name
	}
	if in.Address != nil {
		warehouse.Address = *in.Address
	}
	warehouse.UpdatedAt = time.Now()
	if err := uc.repo.Update(warehouse); err != nil {
		return nil, err
	}
	return dto.ToWarehouseResponse(warehouse), nil
}

// List lista bodegas del usuario con paginación.
func (uc *WarehouseUseCase) List(userID string, limit, offset int) (*dto.WarehouseListResponse, error) {
	list, err := uc.repo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.WarehouseResponse, 0, len(list))
	for _, w := range list {
		items = append(items, *dto.ToWarehouseResponse(w))
	}
	return &dto.WarehouseListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una bodega del usuario.
func (uc *WarehouseUseCase) Delete(userID, id string) error {
	warehouse, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if warehouse == nil || warehouse.UserID != userID {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
