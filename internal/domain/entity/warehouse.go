package entity

import "time"

// Warehouse representa una bodega del usuario. El motor de movimientos no la crea:
// selecciona la más reciente del dueño.
type Warehouse struct {
	ID        string
	UserID    string
	Name      string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
