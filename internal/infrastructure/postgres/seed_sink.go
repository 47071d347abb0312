package postgres

import (
	"context"

	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

// SeedSink escribe cajas y usuarios de un fixture (ver cmd/seed).
type SeedSink struct {
	boxes *BoxRepo
	users *UserRepo
}

// NewSeedSink construye el destino sobre q (pool o transacción).
func NewSeedSink(q Querier) *SeedSink {
	return &SeedSink{boxes: NewBoxRepository(q), users: NewUserRepository(q)}
}

// UpsertBox inserta o actualiza la caja.
func (s *SeedSink) UpsertBox(ctx context.Context, b *entity.Box) error {
	return s.boxes.Upsert(ctx, b)
}

// UpsertUser inserta o actualiza el usuario.
func (s *SeedSink) UpsertUser(ctx context.Context, u *entity.User) error {
	return s.users.Upsert(ctx, u)
}
