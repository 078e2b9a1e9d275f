package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/stock-ledger-api/internal/application/dto"
	"github.com/tu-usuario/stock-ledger-api/internal/domain"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. StockQuantity solo cambia vía
// movimientos; aquí nunca se toca.
type ProductUseCase struct {
	repo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo}
}

// Create crea un nuevo producto con stock 0. SKU único por usuario.
func (uc *ProductUseCase) Create(userID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.IsNegative() || (in.CostPrice != nil && in.CostPrice.IsNegative()) {
		return nil, domain.ErrInvalidInput
	}
	existing, _ := uc.repo.GetByUserAndSKU(userID, in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	costPrice := decimal.Zero
	if in.CostPrice != nil {
		costPrice = *in.CostPrice
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		UserID:        userID,
		SKU:           in.SKU,
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		CostPrice:     costPrice,
		StockQuantity: decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// GetByID obtiene un producto del usuario (nil si no existe o es de otro).
func (uc *ProductUseCase) GetByID(userID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// Update actualiza los datos editables de un producto del usuario.
func (uc *ProductUseCase) Update(userID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.CostPrice != nil {
		if in.CostPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product.CostPrice = *in.CostPrice
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(product); err != nil {
		return nil, err
	}
	return dto.ToProductResponse(product), nil
}

// List lista productos del usuario con paginación.
func (uc *ProductUseCase) List(userID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.ListByUser(userID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina un producto del usuario.
func (uc *ProductUseCase) Delete(userID, id string) error {
	product, err := uc.repo.GetByIDAndUser(id, userID)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
