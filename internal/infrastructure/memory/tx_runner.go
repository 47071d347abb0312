package memory

import (
	"context"
	"fmt"

	"github.com/jhoicas/cajas-api/internal/application/movement"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
)

var _ movement.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks con repos atados a una transacción en memoria.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Run toma el lock global, ejecuta fn y confirma; ante error (o contexto cancelado)
// restaura el estado previo.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	boxRepo repository.BoxRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	snap := r.s.snapshot()

	g := guard{s: r.s, inTx: true}
	if err := fn(&MovementRepo{g: g}, &BoxRepo{g: g}); err != nil {
		r.s.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		r.s.restore(snap)
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
