package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/stock-ledger-api/internal/domain"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/repository"
)

// --- fakes en memoria ---

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		clone := *p
		r.products[p.ID] = &clone
	}
	return r
}

func (r *fakeProductRepo) Create(p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	if p, ok := r.products[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByIDAndUser(id, userID string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok || p.UserID != userID {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) GetForUpdateByUser(id, userID string) (*entity.Product, error) {
	return r.GetByIDAndUser(id, userID)
}

func (r *fakeProductRepo) GetByUserAndSKU(userID, sku string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.UserID == userID && p.SKU == sku {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	clone := *p
	r.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, quantity decimal.Decimal) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQuantity = quantity
	return nil
}

func (r *fakeProductRepo) ListByUser(userID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.UserID == userID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Delete(id string) error {
	delete(r.products, id)
	return nil
}

type fakeWarehouseRepo struct {
	warehouses []*entity.Warehouse
}

func (r *fakeWarehouseRepo) Create(w *entity.Warehouse) error {
	r.warehouses = append(r.warehouses, w)
	return nil
}

func (r *fakeWarehouseRepo) GetByID(id string) (*entity.Warehouse, error) {
	for _, w := range r.warehouses {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, nil
}

func (r *fakeWarehouseRepo) GetLatestByUser(userID string) (*entity.Warehouse, error) {
	var latest *entity.Warehouse
	for _, w := range r.warehouses {
		if w.UserID != userID {
			continue
		}
		if latest == nil || w.CreatedAt.After(latest.CreatedAt) {
			latest = w
		}
	}
	return latest, nil
}

func (r *fakeWarehouseRepo) Update(w *entity.Warehouse) error { return nil }

func (r *fakeWarehouseRepo) ListByUser(userID string, limit, offset int) ([]*entity.Warehouse, error) {
	return r.warehouses, nil
}

func (r *fakeWarehouseRepo) Delete(id string) error { return nil }

type fakeMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	clone := *m
	r.movements = append(r.movements, &clone)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByUser(userID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

// fakeTxRunner imita la semántica transaccional: toma un snapshot del estado antes
// de ejecutar fn y lo restaura si fn devuelve error (rollback).
type fakeTxRunner struct {
	products   *fakeProductRepo
	warehouses *fakeWarehouseRepo
	movements  *fakeMovementRepo
}

func (tx *fakeTxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	productSnapshot := make(map[string]entity.Product, len(tx.products.products))
	for id, p := range tx.products.products {
		productSnapshot[id] = *p
	}
	movementCount := len(tx.movements.movements)

	if err := fn(tx.movements, tx.products, tx.warehouses); err != nil {
		for id, p := range productSnapshot {
			clone := p
			tx.products.products[id] = &clone
		}
		tx.movements.movements = tx.movements.movements[:movementCount]
		return err
	}
	return nil
}

// --- helpers ---

const (
	testUserID  = "user-1"
	otherUserID = "user-2"
)

func setupBulk(t *testing.T, products ...*entity.Product) (*BulkMovementUseCase, *fakeTxRunner) {
	t.Helper()
	tx := &fakeTxRunner{
		products: newFakeProductRepo(products...),
		warehouses: &fakeWarehouseRepo{warehouses: []*entity.Warehouse{
			{ID: "wh-old", UserID: testUserID, Name: "Bodega vieja", CreatedAt: time.Now().Add(-48 * time.Hour)},
			{ID: "wh-1", UserID: testUserID, Name: "Bodega principal", CreatedAt: time.Now().Add(-time.Hour)},
		}},
		movements: &fakeMovementRepo{},
	}
	return NewBulkMovementUseCase(tx), tx
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func baseInput(items ...BulkMovementItem) BulkMovementInput {
	return BulkMovementInput{
		UserID:       testUserID,
		MovementDate: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
		Notes:        "lote de prueba",
		Items:        items,
		IPAddress:    "10.0.0.1",
		UserAgent:    "test-agent",
	}
}

// --- tests ---

func TestRegisterBulk_SalidaSimple(t *testing.T) {
	uc, tx := setupBulk(t, &entity.Product{
		ID: "prod-1", UserID: testUserID, SKU: "SKU-001", Name: "Tornillo",
		CostPrice: dec("2"), StockQuantity: dec("10"),
	})

	result, err := uc.RegisterBulk(context.Background(), baseInput(BulkMovementItem{
		ProductID:      "prod-1",
		QuantityChange: dec("-4"),
		SourceType:     entity.SourceTypeSale,
	}))
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Empty(t, result.Warnings)
	assert.Equal(t, 1, result.TotalItems)
	assert.Equal(t, "wh-1", result.Warehouse.ID)

	mov := result.Created[0].Movement
	assert.NotEmpty(t, mov.ID)
	assert.Equal(t, testUserID, mov.UserID)
	assert.Equal(t, "wh-1", mov.WarehouseID)
	assert.Equal(t, "Tornillo", mov.ProductName)
	assert.Equal(t, "SKU-001", mov.ProductSKU)
	assert.True(t, mov.QuantityBefore.Equal(dec("10")))
	assert.True(t, mov.QuantityAfter.Equal(dec("6")))
	assert.Equal(t, entity.MovementTypeOut, mov.MovementType)
	assert.Equal(t, entity.SourceTypeSale, mov.SourceType)
	assert.True(t, mov.TotalCost.Equal(dec("8")))
	assert.Equal(t, "lote de prueba", mov.Notes)
	assert.Equal(t, "10.0.0.1", mov.IPAddress)
	assert.Equal(t, "test-agent", mov.UserAgent)

	// El saldo del producto avanzó y el asiento quedó persistido
	p, _ := tx.products.GetByID("prod-1")
	assert.True(t, p.StockQuantity.Equal(dec("6")))
	assert.Len(t, tx.movements.movements, 1)
}

func TestRegisterBulk_FalloTotalRevierteTodo(t *testing.T) {
	uc, tx := setupBulk(t, &entity.Product{
		ID: "prod-1", UserID: testUserID, Name: "Tornillo",
		StockQuantity: dec("3"),
	})

	result, err := uc.RegisterBulk(context.Background(), baseInput(BulkMovementItem{
		ProductID:      "prod-1",
		QuantityChange: dec("-5"),
		SourceType:     entity.SourceTypeSale,
	}))
	require.Error(t, err)
	assert.Nil(t, result)

	var bulkErr *BulkFailedError
	require.True(t, errors.As(err, &bulkErr))
	require.Len(t, bulkErr.Errors, 1)
	assert.Contains(t, bulkErr.Errors[0], "Item 0:")
	assert.Contains(t, bulkErr.Errors[0], "stock insuficiente")

	// Sin efectos: ni movimientos ni cambios de saldo
	assert.Empty(t, tx.movements.movements)
	p, _ := tx.products.GetByID("prod-1")
	assert.True(t, p.StockQuantity.Equal(dec("3")))
}

func TestRegisterBulk_ItemsSecuencialesMismoProducto(t *testing.T) {
	uc, tx := setupBulk(t, &entity.Product{
		ID: "prod-1", UserID: testUserID, Name: "Tornillo",
		StockQuantity: dec("5"),
	})

	// La salida de 12 solo es posible porque la entrada de 10 se aplicó antes
	result, err := uc.RegisterBulk(context.Background(), baseInput(
		BulkMovementItem{ProductID: "prod-1", QuantityChange: dec("10"), SourceType: entity.SourceTypePurchase},
		BulkMovementItem{ProductID: "prod-1", QuantityChange: dec("-12"), SourceType: entity.SourceTypeSale},
	))
	require.NoError(t, err)
	require.Len(t, result.Created, 2)

	first, second := result.Created[0].Movement, result.Created[1].Movement
	assert.True(t, first.QuantityBefore.Equal(dec("5")))
	assert.True(t, first.QuantityAfter.Equal(dec("15")))
	assert.True(t, second.QuantityBefore.Equal(dec("15")))
	assert.True(t, second.QuantityAfter.Equal(dec("3")))

	p, _ := tx.products.GetByID("prod-1")
	assert.True(t, p.StockQuantity.Equal(dec("3")))
}

func TestRegisterBulk_ExitoParcialConWarnings(t *testing.T) {
	uc, tx := setupBulk(t,
		&entity.Product{ID: "prod-1", UserID: testUserID, Name: "Tornillo", StockQuantity: dec("10")},
		&entity.Product{ID: "prod-2", UserID: testUserID, Name: "Tuerca", StockQuantity: dec("1")},
	)

	result, err := uc.RegisterBulk(context.Background(), baseInput(
		BulkMovementItem{ProductID: "prod-1", QuantityChange: dec("-2"), SourceType: entity.SourceTypeSale},
		BulkMovementItem{ProductID: "prod-2", QuantityChange: dec("-5"), SourceType: entity.SourceTypeSale},
		BulkMovementItem{ProductID: "prod-x", QuantityChange: dec("1"), SourceType: entity.SourceTypePurchase},
	))
	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Equal(t, 3, result.TotalItems)

	// Los items fallidos se reportan como warnings posicionales, en orden
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0], "Item 1:")
	assert.Contains(t, result.Warnings[0], "stock insuficiente")
	assert.Contains(t, result.Warnings[1], "Item 2: producto no encontrado o acceso denegado")

	// El item válido se confirmó; el producto del item fallido quedó intacto
	p1, _ := tx.products.GetByID("prod-1")
	assert.True(t, p1.StockQuantity.Equal(dec("8")))
	p2, _ := tx.products.GetByID("prod-2")
	assert.True(t, p2.StockQuantity.Equal(dec("1")))
}

func TestRegisterBulk_ProductoDeOtroUsuario(t *testing.T) {
	uc, tx := setupBulk(t, &entity.Product{
		ID: "prod-ajeno", UserID: otherUserID, Name: "Ajeno", StockQuantity: dec("100"),
	})

	_, err := uc.RegisterBulk(context.Background(), baseInput(BulkMovementItem{
		ProductID:      "prod-ajeno",
		QuantityChange: dec("-1"),
		SourceType:     entity.SourceTypeSale,
	}))
	require.Error(t, err)

	// Mismo mensaje que producto inexistente: no se revela si el producto existe
	var bulkErr *BulkFailedError
	require.True(t, errors.As(err, &bulkErr))
	assert.Contains(t, bulkErr.Errors[0], "producto no encontrado o acceso denegado")

	p, _ := tx.products.GetByID("prod-ajeno")
	assert.True(t, p.StockQuantity.Equal(dec("100")))
}

func TestRegisterBulk_SinBodega(t *testing.T) {
	tx := &fakeTxRunner{
		products:   newFakeProductRepo(&entity.Product{ID: "prod-1", UserID: testUserID, StockQuantity: dec("10")}),
		warehouses: &fakeWarehouseRepo{},
		movements:  &fakeMovementRepo{},
	}
	uc := NewBulkMovementUseCase(tx)

	_, err := uc.RegisterBulk(context.Background(), baseInput(BulkMovementItem{
		ProductID:      "prod-1",
		QuantityChange: dec("1"),
		SourceType:     entity.SourceTypePurchase,
	}))
	assert.ErrorIs(t, err, domain.ErrWarehouseNotFound)
	assert.Empty(t, tx.movements.movements)
}

func TestRegisterBulk_CostoPorDefectoDelProducto(t *testing.T) {
	uc, _ := setupBulk(t, &entity.Product{
		ID: "prod-1", UserID: testUserID, Name: "Tornillo",
		CostPrice: dec("4.5"), StockQuantity: dec("10"),
	})

	result, err := uc.RegisterBulk(context.Background(), baseInput(BulkMovementItem{
		ProductID:      "prod-1",
		QuantityChange: dec("-2"),
		SourceType:     entity.SourceTypeSale,
	}))
	require.NoError(t, err)

	mov := result.Created[0].Movement
	assert.True(t, mov.UnitCost.Equal(dec("4.5")))
	assert.True(t, mov.TotalCost.Equal(dec("9")))
}

func TestRegisterBulk_CostoExplicitoPorItem(t *testing.T) {
	uc, _ := setupBulk(t, &entity.Product{
		ID: "prod-1", UserID: testUserID, Name: "Tornillo",
		CostPrice: dec("4.5"), StockQuantity: dec("10"),
	})
	unitCost := dec("7")

	result, err := uc.RegisterBulk(context.Background(), baseInput(BulkMovementItem{
		ProductID:      "prod-1",
		QuantityChange: dec("3"),
		SourceType:     entity.SourceTypePurchase,
		UnitCost:       &unitCost,
	}))
	require.NoError(t, err)

	mov := result.Created[0].Movement
	assert.True(t, mov.UnitCost.Equal(dec("7")))
	assert.True(t, mov.TotalCost.Equal(dec("21")))
}

func TestRegisterBulk_NotasDelItemSobreLasDelLote(t *testing.T) {
	uc, _ := setupBulk(t, &entity.Product{
		ID: "prod-1", UserID: testUserID, Name: "Tornillo", StockQuantity: dec("10"),
	})

	result, err := uc.RegisterBulk(context.Background(), baseInput(
		BulkMovementItem{ProductID: "prod-1", QuantityChange: dec("1"), SourceType: entity.SourceTypePurchase, Notes: "nota del item"},
		BulkMovementItem{ProductID: "prod-1", QuantityChange: dec("1"), SourceType: entity.SourceTypePurchase},
	))
	require.NoError(t, err)
	require.Len(t, result.Created, 2)

	assert.Equal(t, "nota del item", result.Created[0].Movement.Notes)
	assert.Equal(t, "lote de prueba", result.Created[1].Movement.Notes)
}

func TestRegisterBulk_ReenvioNoEsIdempotente(t *testing.T) {
	uc, tx := setupBulk(t, &entity.Product{
		ID: "prod-1", UserID: testUserID, Name: "Tornillo", StockQuantity: dec("10"),
	})
	input := baseInput(BulkMovementItem{
		ProductID:      "prod-1",
		QuantityChange: dec("-3"),
		SourceType:     entity.SourceTypeSale,
	})

	_, err := uc.RegisterBulk(context.Background(), input)
	require.NoError(t, err)
	_, err = uc.RegisterBulk(context.Background(), input)
	require.NoError(t, err)

	// Cada reenvío aplica de nuevo: dos asientos y doble descuento
	assert.Len(t, tx.movements.movements, 2)
	p, _ := tx.products.GetByID("prod-1")
	assert.True(t, p.StockQuantity.Equal(dec("4")))
}

func TestRegisterBulk_EntradaInvalida(t *testing.T) {
	uc, _ := setupBulk(t)

	_, err := uc.RegisterBulk(context.Background(), BulkMovementInput{
		UserID:       testUserID,
		MovementDate: time.Now(),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.RegisterBulk(context.Background(), BulkMovementInput{
		MovementDate: time.Now(),
		Items:        []BulkMovementItem{{ProductID: "prod-1", QuantityChange: dec("1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
