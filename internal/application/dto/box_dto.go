package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BoxResponse salida de una caja con su saldo actual.
type BoxResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Balance     decimal.Decimal `json:"balance"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
