package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/cajas-api/internal/domain"
)

func TestMapPgError(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{"23505", domain.ErrDuplicate},
		{"23503", domain.ErrInvalidInput},
		{"23514", domain.ErrInvalidInput},
		{"22003", domain.ErrInvalidInput},
		{"22021", domain.ErrInvalidInput},
		{"40001", domain.ErrConcurrency},
		{"40P01", domain.ErrConcurrency},
		{"55P03", domain.ErrConcurrency},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := mapPgError("op", fmt.Errorf("exec: %w", &pgconn.PgError{Code: tc.code}))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestMapPgError_SinCodigoConocido(t *testing.T) {
	base := errors.New("conexión cerrada")
	err := mapPgError("get box", base)
	assert.ErrorIs(t, err, base)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)

	err = mapPgError("get box", &pgconn.PgError{Code: "XX000"})
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrConcurrency)
}
