package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Movement representa un movimiento interno de fondos entre dos cajas.
// Mientras Active es true, la caja origen refleja el débito de OriginAmount
// y la caja destino el crédito de DestinationAmount.
type Movement struct {
	ID                string
	Number            int64 // nro: asignado por el almacenamiento, orden de inserción
	OriginBoxID       string
	DestinationBoxID  string
	OriginAmount      decimal.Decimal
	DestinationAmount decimal.Decimal
	Observation       string
	Active            bool
	CreatedBy         string
	UpdatedBy         string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Precisión de montos y saldos: NUMERIC(20, 4).
const (
	AmountScale     = 4
	AmountIntDigits = 16
)

var amountLimit = decimal.New(1, AmountIntDigits)

// ValidAmount indica si d es no negativo y entra en la columna sin redondeo.
func ValidAmount(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThan(amountLimit) && d.Equal(d.Truncate(AmountScale))
}

// IsSelfTransfer indica si origen y destino son la misma caja.
func (m *Movement) IsSelfTransfer() bool {
	return m.OriginBoxID == m.DestinationBoxID
}

// MovementPatch campos informativos actualizables (nunca montos ni estado).
type MovementPatch struct {
	Observation *string
}

// JoinedMovement es la vista del movimiento con cajas y usuarios referenciados.
type JoinedMovement struct {
	Movement
	OriginBox      Box
	DestinationBox Box
	Creator        User
	Updater        User
}
