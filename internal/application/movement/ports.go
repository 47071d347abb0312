package movement

import (
	"context"
	"time"

	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza que el alta/baja (dos saldos + estado) se aplique completo o no se aplique.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		boxRepo repository.BoxRepository,
	) error) error
}

// ReportGenerator genera un documento (PDF, planilla) con el listado de movimientos.
type ReportGenerator interface {
	GenerateMovementReport(ctx context.Context, rows []entity.JoinedMovement, total int, generatedAt time.Time) ([]byte, error)
}
