package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

// BoxRepository define el puerto hacia el almacén de cajas (colaborador externo).
// Usado dentro de transacciones para garantizar consistencia de saldos.
type BoxRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Box, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Box, error)
	// AdjustBalance suma delta al saldo de forma atómica (balance = balance + delta).
	AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, at time.Time) (*entity.Box, error)
}
