package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `
		SELECT id, name, email, role, box_permissions, created_at, updated_at
		FROM users WHERE id = $1`
	var (
		u    entity.User
		role string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&u.ID, &u.Name, &u.Email, &role, &u.BoxPermissions, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.KindUser, id)
		}
		return nil, mapPgError("get user", err)
	}
	u.Role = entity.Role(role)
	return &u, nil
}

// Upsert inserta o actualiza un usuario. Los usuarios se administran fuera del
// servicio; se usa para cargas iniciales (cmd/seed) y tests.
func (r *UserRepo) Upsert(ctx context.Context, u *entity.User) error {
	perms := u.BoxPermissions
	if perms == nil {
		perms = []string{}
	}
	query := `
		INSERT INTO users (id, name, email, role, box_permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, email = EXCLUDED.email, role = EXCLUDED.role,
			box_permissions = EXCLUDED.box_permissions, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Name, u.Email, string(u.Role), perms, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return mapPgError("upsert user", err)
	}
	return nil
}
