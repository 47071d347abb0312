package movement_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/movement"
)

func TestParseSearch_Vacio(t *testing.T) {
	s := search(t, "   ")
	assert.True(t, s.IsZero())
	assert.True(t, s.Matches(&entity.JoinedMovement{}))
}

func TestParseSearch_PatronConComodines(t *testing.T) {
	s := search(t, "caja  chica")
	assert.Equal(t, "caja.*chica", s.Pattern)
	assert.Nil(t, s.Number)
}

func TestParseSearch_EscapaMetacaracteres(t *testing.T) {
	s := search(t, "a+b (x)")
	assert.Equal(t, `a\+b.*\(x\)`, s.Pattern)

	j := &entity.JoinedMovement{Movement: entity.Movement{Observation: "cobro a+b por (x)"}}
	assert.True(t, s.Matches(j))
	j.Observation = "aab x"
	assert.False(t, s.Matches(j))
}

// "42" coincide exacto con nro 42 y no con nro 420.
func TestParseSearch_NumeroExacto(t *testing.T) {
	s := search(t, "42")
	require.NotNil(t, s.Number)
	assert.EqualValues(t, 42, *s.Number)

	assert.True(t, s.Matches(&entity.JoinedMovement{Movement: entity.Movement{Number: 42}}))
	assert.False(t, s.Matches(&entity.JoinedMovement{Movement: entity.Movement{Number: 420}}))
}

func TestParseSearch_NumeroTambienBuscaTexto(t *testing.T) {
	s := search(t, "42")
	j := &entity.JoinedMovement{
		Movement:  entity.Movement{Number: 7},
		OriginBox: entity.Box{Description: "Sucursal 42"},
	}
	assert.True(t, s.Matches(j))
}

func TestParseSearch_UTF8Invalido(t *testing.T) {
	for _, term := range []string{"caja \xff", "\xc3", "ok \xed\xa0\x80"} {
		assert.NotPanics(t, func() {
			_, err := movement.ParseSearch(term)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "término %q", term)
		})
	}
}

// Plegado simple, igual que ~* en Postgres.
func TestParseSearch_SinPlegadoCompleto(t *testing.T) {
	j := &entity.JoinedMovement{OriginBox: entity.Box{Description: "Straße Principal"}}

	assert.False(t, search(t, "strasse").Matches(j))
	assert.True(t, search(t, "STRAßE").Matches(j))
	assert.True(t, search(t, "principal").Matches(j))
}
