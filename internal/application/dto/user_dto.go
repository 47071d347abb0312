package dto

import "time"

// UserResponse salida de un usuario con su rol y cajas permitidas.
type UserResponse struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	BoxPermissions []string  `json:"box_permissions"`
	ViewAllBoxes   bool      `json:"view_all_boxes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
