package entity

import (
	"slices"
	"time"
)

// Role rol del usuario.
type Role string

// Roles válidos para User.
const (
	RoleAdmin    Role = "admin"
	RoleCajero   Role = "cajero"
	RoleConsulta Role = "consulta"
)

// ParseRole valida un rol recibido como texto (token, base de datos).
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleAdmin, RoleCajero, RoleConsulta:
		return r, true
	}
	return "", false
}

// User representa un usuario del sistema. BoxPermissions son las cajas que puede ver.
type User struct {
	ID             string
	Name           string
	Email          string
	Role           Role
	BoxPermissions []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CanViewAllBoxes indica si el rol omite el filtro de permisos por caja.
func (u *User) CanViewAllBoxes() bool {
	return u.Role == RoleAdmin
}

// CanViewBox indica si el usuario puede ver la caja indicada.
func (u *User) CanViewBox(boxID string) bool {
	return u.CanViewAllBoxes() || slices.Contains(u.BoxPermissions, boxID)
}
