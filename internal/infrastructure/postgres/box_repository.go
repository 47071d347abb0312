package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
)

var _ repository.BoxRepository = (*BoxRepo)(nil)

const boxColumns = `id, description, balance, active, created_at, updated_at`

// BoxRepo implementación sobre PostgreSQL (usable con pool o tx).
type BoxRepo struct {
	q Querier
}

// NewBoxRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBoxRepository(q Querier) *BoxRepo {
	return &BoxRepo{q: q}
}

// GetByID obtiene una caja por ID.
func (r *BoxRepo) GetByID(ctx context.Context, id string) (*entity.Box, error) {
	return r.get(ctx, `SELECT `+boxColumns+` FROM boxes WHERE id = $1`, id, "get box")
}

// GetForUpdate obtiene la caja y bloquea la fila para update (SELECT FOR UPDATE).
func (r *BoxRepo) GetForUpdate(ctx context.Context, id string) (*entity.Box, error) {
	return r.get(ctx, `SELECT `+boxColumns+` FROM boxes WHERE id = $1 FOR UPDATE`, id, "get box for update")
}

// AdjustBalance incrementa el saldo en delta (balance = balance + delta) y devuelve la caja actualizada.
func (r *BoxRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal, at time.Time) (*entity.Box, error) {
	query := `
		UPDATE boxes SET balance = balance + $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + boxColumns
	return r.get(ctx, query, id, "adjust box balance", delta, at)
}

func (r *BoxRepo) get(ctx context.Context, query, id, op string, extra ...any) (*entity.Box, error) {
	args := append([]any{id}, extra...)
	var b entity.Box
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.Description, &b.Balance, &b.Active, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.KindBox, id)
		}
		return nil, mapPgError(op, err)
	}
	return &b, nil
}

// Upsert inserta o actualiza una caja (cargas iniciales y tests).
func (r *BoxRepo) Upsert(ctx context.Context, b *entity.Box) error {
	query := `
		INSERT INTO boxes (id, description, balance, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			description = EXCLUDED.description, balance = EXCLUDED.balance,
			active = EXCLUDED.active, updated_at = EXCLUDED.updated_at`
	if _, err := r.q.Exec(ctx, query, b.ID, b.Description, b.Balance, b.Active, b.CreatedAt, b.UpdatedAt); err != nil {
		return mapPgError("upsert box", err)
	}
	return nil
}
