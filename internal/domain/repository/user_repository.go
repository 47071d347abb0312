package repository

import (
	"context"

	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

// UserRepository define el puerto de lectura de usuarios (rol y permisos de caja).
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
