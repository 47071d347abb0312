package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Box representa una caja (cuenta con saldo). Se administra fuera de este servicio;
// aquí solo se lee y se ajusta su saldo.
type Box struct {
	ID          string
	Description string
	Balance     decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
