// Package movement contiene la lógica de dominio de los movimientos internos:
// cálculo de ajustes de saldo (alta/baja) y el algoritmo de listado
// filtro → join → orden → paginación.
package movement

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

// BalanceDelta ajuste a sumar al saldo de una caja.
type BalanceDelta struct {
	BoxID  string
	Amount decimal.Decimal
}

// ActivationDeltas ajustes que aplica un movimiento al pasar a activo:
// débito de OriginAmount en origen y crédito de DestinationAmount en destino.
func ActivationDeltas(m *entity.Movement) []BalanceDelta {
	return []BalanceDelta{
		{BoxID: m.OriginBoxID, Amount: m.OriginAmount.Neg()},
		{BoxID: m.DestinationBoxID, Amount: m.DestinationAmount},
	}
}

// ToggleDeltas ajustes para invertir el estado actual del movimiento.
// Activo (baja): origen += OriginAmount, destino -= DestinationAmount.
// Inactivo (alta): origen -= OriginAmount, destino += DestinationAmount.
// En una auto-transferencia ambos ajustes recaen sobre la misma caja y se suman.
func ToggleDeltas(m *entity.Movement) []BalanceDelta {
	deltas := ActivationDeltas(m)
	if m.Active {
		for i := range deltas {
			deltas[i].Amount = deltas[i].Amount.Neg()
		}
	}
	return deltas
}

// NetDeltas agrupa los ajustes por caja respetando el orden de aparición.
func NetDeltas(deltas []BalanceDelta) []BalanceDelta {
	out := make([]BalanceDelta, 0, len(deltas))
	for _, d := range deltas {
		idx := slices.IndexFunc(out, func(o BalanceDelta) bool { return o.BoxID == d.BoxID })
		if idx >= 0 {
			out[idx].Amount = out[idx].Amount.Add(d.Amount)
			continue
		}
		out = append(out, d)
	}
	return out
}

// LockOrder IDs de caja únicos en orden ascendente. Bloquear siempre en este orden
// evita deadlocks entre toggles que comparten cajas.
func LockOrder(m *entity.Movement) []string {
	ids := []string{m.OriginBoxID}
	if m.DestinationBoxID != m.OriginBoxID {
		ids = append(ids, m.DestinationBoxID)
	}
	slices.Sort(ids)
	return ids
}
