package entity

import "time"

// User representa un usuario del sistema; todo producto, bodega y movimiento
// pertenece a un usuario.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
