package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/entity"
	"github.com/tu-usuario/stock-ledger-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, user_id, product_id, warehouse_id, product_name, product_sku,
	quantity_before, quantity_change, quantity_after, movement_type, source_type,
	unit_cost, total_cost, notes, movement_date, ip_address, user_agent, created_at`

// StockMovementRepo implementación del libro de movimientos sobre PostgreSQL
// (usable con pool o tx). Los asientos nunca se actualizan ni se borran.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un asiento del libro de movimientos.
func (r *StockMovementRepo) Create(movement *entity.StockMovement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	query := `
		INSERT INTO stock_movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		movement.ID, movement.UserID, movement.ProductID, movement.WarehouseID,
		movement.ProductName, movement.ProductSKU,
		movement.QuantityBefore, movement.QuantityChange, movement.QuantityAfter,
		movement.MovementType, movement.SourceType,
		movement.UnitCost, movement.TotalCost, movement.Notes, movement.MovementDate,
		movement.IPAddress, movement.UserAgent, movement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.UserID, &m.ProductID, &m.WarehouseID, &m.ProductName, &m.ProductSKU,
		&m.QuantityBefore, &m.QuantityChange, &m.QuantityAfter, &m.MovementType, &m.SourceType,
		&m.UnitCost, &m.TotalCost, &m.Notes, &m.MovementDate,
		&m.IPAddress, &m.UserAgent, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// GetByID obtiene un asiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// ListByUser lista asientos del usuario en un rango de fechas opcional.
func (r *StockMovementRepo) ListByUser(userID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(`user_id`, userID, from, to, limit, offset)
}

// ListByProduct lista asientos de un producto en un rango de fechas opcional.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return r.list(`product_id`, productID, from, to, limit, offset)
}

func (r *StockMovementRepo) list(field, value string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE ` + field + ` = $1`
	args := []any{value}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND movement_date >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND movement_date <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY movement_date DESC, created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.UserID, &m.ProductID, &m.WarehouseID, &m.ProductName, &m.ProductSKU,
			&m.QuantityBefore, &m.QuantityChange, &m.QuantityAfter, &m.MovementType, &m.SourceType,
			&m.UnitCost, &m.TotalCost, &m.Notes, &m.MovementDate,
			&m.IPAddress, &m.UserAgent, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
