package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMovementRequest body para POST /api/movements.
// Los montos son punteros para distinguir "ausente" de cero.
type CreateMovementRequest struct {
	OriginBoxID       string           `json:"origin_box_id"`
	DestinationBoxID  string           `json:"destination_box_id"`
	OriginAmount      *decimal.Decimal `json:"origin_amount"`
	DestinationAmount *decimal.Decimal `json:"destination_amount"`
	Observation       string           `json:"observation"`
}

// UpdateMovementRequest body para PUT /api/movements/:id (solo campos informativos).
type UpdateMovementRequest struct {
	Observation *string `json:"observation"`
}

// ListMovementsRequest criterios de listado tal como llegan de la API.
type ListMovementsRequest struct {
	PageRequest
	Column    string // columna de orden (nro, created_at, caja_origen.descripcion, ...)
	Direction string // asc | desc | 1 | -1
	Search    string // texto libre o nro
	Active    string // "" | "true" | "false"
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID                string          `json:"id"`
	Number            int64           `json:"nro"`
	OriginBoxID       string          `json:"origin_box_id"`
	DestinationBoxID  string          `json:"destination_box_id"`
	OriginAmount      decimal.Decimal `json:"origin_amount"`
	DestinationAmount decimal.Decimal `json:"destination_amount"`
	Observation       string          `json:"observation"`
	Active            bool            `json:"active"`
	CreatedBy         string          `json:"created_by"`
	UpdatedBy         string          `json:"updated_by"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// UserSummary datos del usuario incluidos en la vista unida.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// JoinedMovementResponse movimiento con cajas y usuarios referenciados.
type JoinedMovementResponse struct {
	MovementResponse
	OriginBox      BoxResponse `json:"origin_box"`
	DestinationBox BoxResponse `json:"destination_box"`
	Creator        UserSummary `json:"creator"`
	Updater        UserSummary `json:"updater"`
}

// MovementListResponse lista paginada de movimientos con el total filtrado.
type MovementListResponse struct {
	Items []JoinedMovementResponse `json:"items"`
	Page  PageResponse             `json:"page"`
}
