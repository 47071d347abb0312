package memory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
)

var _ repository.BoxRepository = (*BoxRepo)(nil)

// BoxRepo implementación en memoria de BoxRepository.
type BoxRepo struct {
	g guard
}

// NewBoxRepository construye el repositorio fuera de transacción.
func NewBoxRepository(s *Store) *BoxRepo {
	return &BoxRepo{g: guard{s: s}}
}

// GetByID obtiene una caja por ID.
func (r *BoxRepo) GetByID(_ context.Context, id string) (*entity.Box, error) {
	defer r.g.lock()()
	b, ok := r.g.s.boxes[id]
	if !ok {
		return nil, domain.NotFound(domain.KindBox, id)
	}
	return &b, nil
}

// GetForUpdate equivale a GetByID (el lock global ya está tomado en la transacción).
func (r *BoxRepo) GetForUpdate(ctx context.Context, id string) (*entity.Box, error) {
	return r.GetByID(ctx, id)
}

// AdjustBalance suma delta al saldo.
func (r *BoxRepo) AdjustBalance(_ context.Context, id string, delta decimal.Decimal, at time.Time) (*entity.Box, error) {
	defer r.g.lock()()
	b, ok := r.g.s.boxes[id]
	if !ok {
		return nil, domain.NotFound(domain.KindBox, id)
	}
	b.Balance = b.Balance.Add(delta)
	b.UpdatedAt = at
	r.g.s.boxes[id] = b
	return &b, nil
}
