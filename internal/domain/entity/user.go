package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"    // superusuario: además da de alta productos y gestiona operadores
	RoleOperator = "operator" // usuario limitado: consulta y sincroniza stock
)

// User operador de la consola de sincronización.
type User struct {
	Username     string
	PasswordHash string // bcrypt
	Role         string
	CreatedAt    time.Time
}
