package repository

import (
	"context"
	"time"

	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/movement"
)

// MovementRepository define el puerto de persistencia para movimientos internos.
// Los errores de "no existe" se devuelven como domain.ErrNotFound (vía domain.EntityError).
type MovementRepository interface {
	// Create persiste el movimiento activo; asigna ID (si está vacío) y Number.
	Create(ctx context.Context, m *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate obtiene el movimiento bloqueando la fila (dentro de una transacción).
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// GetJoinedByID devuelve la vista unida; domain.ErrIntegrity si falta alguna referencia.
	GetJoinedByID(ctx context.Context, id string) (*entity.JoinedMovement, error)
	// UpdateInfo actualiza solo campos informativos; nunca montos ni estado.
	UpdateInfo(ctx context.Context, id string, patch entity.MovementPatch, updatedBy string, at time.Time) (*entity.Movement, error)
	SetActive(ctx context.Context, id string, active bool, updatedBy string, at time.Time) (*entity.Movement, error)
	// List devuelve la página y el total filtrado (mismo predicado y misma instantánea).
	List(ctx context.Context, c movement.ListCriteria) ([]entity.JoinedMovement, int, error)
}
