package movement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/movement"
)

func joined(nro int64, origin, dest entity.Box, obs string, active bool) entity.JoinedMovement {
	return entity.JoinedMovement{
		Movement: entity.Movement{
			ID: "m" + string(rune('0'+nro)), Number: nro,
			OriginBoxID: origin.ID, DestinationBoxID: dest.ID,
			OriginAmount: dec("10"), DestinationAmount: dec("10"),
			Observation: obs, Active: active,
		},
		OriginBox:      origin,
		DestinationBox: dest,
	}
}

var (
	boxA    = entity.Box{ID: "A", Description: "Caja Central"}
	boxB    = entity.Box{ID: "B", Description: "Acme Corp Vault"}
	boxC    = entity.Box{ID: "C", Description: "Banco Nación"}
	boxD    = entity.Box{ID: "D", Description: "Caja Chica"}
	fixture = []entity.JoinedMovement{
		joined(1, boxA, boxB, "pago proveedor", true),
		joined(2, boxC, boxD, "reposición", true),
		joined(3, boxD, boxA, "cierre de caja", false),
		joined(4, boxC, boxC, "ajuste", true),
	}
)

func numbers(items []entity.JoinedMovement) []int64 {
	out := make([]int64, 0, len(items))
	for _, it := range items {
		out = append(out, it.Number)
	}
	return out
}

func TestSelect_SinCriteriosOrdenDeInsercion(t *testing.T) {
	page, total := movement.Select(fixture, movement.ListCriteria{Visibility: movement.VisibleAll()})
	assert.Equal(t, 4, total)
	assert.Equal(t, []int64{1, 2, 3, 4}, numbers(page))
}

func TestSelect_FiltroActivo(t *testing.T) {
	inactive := false
	page, total := movement.Select(fixture, movement.ListCriteria{
		Visibility: movement.VisibleAll(),
		Active:     &inactive,
	})
	assert.Equal(t, 1, total)
	assert.Equal(t, []int64{3}, numbers(page))
}

func TestSelect_PermisosOrigenODestino(t *testing.T) {
	user := &entity.User{ID: "u1", Role: entity.RoleCajero, BoxPermissions: []string{"A"}}
	page, total := movement.Select(fixture, movement.ListCriteria{Visibility: movement.VisibilityFor(user)})
	assert.Equal(t, 2, total)
	assert.Equal(t, []int64{1, 3}, numbers(page))
	for _, it := range page {
		assert.True(t, it.OriginBox.ID == "A" || it.DestinationBox.ID == "A")
	}
}

func TestSelect_UsuarioSinPermisosNoVeNada(t *testing.T) {
	user := &entity.User{ID: "u1", Role: entity.RoleConsulta}
	page, total := movement.Select(fixture, movement.ListCriteria{Visibility: movement.VisibilityFor(user)})
	assert.Zero(t, total)
	assert.Empty(t, page)
}

func TestSelect_AdminIgnoraPermisos(t *testing.T) {
	admin := &entity.User{ID: "root", Role: entity.RoleAdmin}
	_, total := movement.Select(fixture, movement.ListCriteria{Visibility: movement.VisibilityFor(admin)})
	assert.Equal(t, 4, total)
}

func TestSelect_BusquedaAcmeSinMayusculas(t *testing.T) {
	page, total := movement.Select(fixture, movement.ListCriteria{
		Visibility: movement.VisibleAll(),
		Search:     search(t, "acme"),
	})
	require.Equal(t, 1, total)
	assert.Equal(t, "Acme Corp Vault", page[0].DestinationBox.Description)
}

func TestSelect_BusquedaPorTokensEnOrden(t *testing.T) {
	page, _ := movement.Select(fixture, movement.ListCriteria{
		Visibility: movement.VisibleAll(),
		Search:     search(t, "cierre caja"),
	})
	assert.Equal(t, []int64{3}, numbers(page))

	page, _ = movement.Select(fixture, movement.ListCriteria{
		Visibility: movement.VisibleAll(),
		Search:     search(t, "caja cierre"),
	})
	assert.Empty(t, page, "los tokens deben aparecer en orden")
}

func TestSelect_BusquedaConAcentos(t *testing.T) {
	page, _ := movement.Select(fixture, movement.ListCriteria{
		Visibility: movement.VisibleAll(),
		Search:     search(t, "NACIÓN"),
	})
	assert.Equal(t, []int64{2, 4}, numbers(page))
}

func TestSelect_OrdenDescendenteYPaginacion(t *testing.T) {
	crit := movement.ListCriteria{
		Visibility: movement.VisibleAll(),
		Sort:       movement.SortNumber,
		Direction:  movement.SortDesc,
		Offset:     1,
		PageSize:   2,
	}
	page, total := movement.Select(fixture, crit)
	assert.Equal(t, 4, total)
	assert.Equal(t, []int64{3, 2}, numbers(page))

	crit.Offset = 10
	page, total = movement.Select(fixture, crit)
	assert.Equal(t, 4, total, "el total no depende de la página")
	assert.Empty(t, page)
}

func TestSelect_OrdenPorCajaOrigenDesempataPorNro(t *testing.T) {
	page, _ := movement.Select(fixture, movement.ListCriteria{
		Visibility: movement.VisibleAll(),
		Sort:       movement.SortOriginBox,
		Direction:  movement.SortAsc,
	})
	// Banco Nación (2, 4), Caja Central (1), Caja Chica (3)
	assert.Equal(t, []int64{2, 4, 1, 3}, numbers(page))
}

// El total coincide con la cantidad de elementos cuando la página cubre todo.
func TestSelect_TotalConsistenteConPaginaCompleta(t *testing.T) {
	user := &entity.User{ID: "u1", Role: entity.RoleCajero, BoxPermissions: []string{"C", "D"}}
	for _, pageSize := range []int{1, 2, 3} {
		crit := movement.ListCriteria{Visibility: movement.VisibilityFor(user), PageSize: pageSize}
		_, total := movement.Select(fixture, crit)

		crit.PageSize = 1000
		all, _ := movement.Select(fixture, crit)
		assert.Equal(t, len(all), total)
	}
}

func TestParseSortColumn(t *testing.T) {
	col, err := movement.ParseSortColumn("caja_origen.descripcion")
	require.NoError(t, err)
	assert.Equal(t, movement.SortOriginBox, col)

	col, err = movement.ParseSortColumn("")
	require.NoError(t, err)
	assert.Equal(t, movement.SortNone, col)

	_, err = movement.ParseSortColumn("password; DROP TABLE")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestParseSortDirection(t *testing.T) {
	for in, want := range map[string]movement.SortDirection{
		"": movement.SortAsc, "1": movement.SortAsc, "asc": movement.SortAsc,
		"-1": movement.SortDesc, "DESC": movement.SortDesc,
	} {
		got, err := movement.ParseSortDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := movement.ParseSortDirection("arriba")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func search(t *testing.T, term string) movement.Search {
	t.Helper()
	s, err := movement.ParseSearch(term)
	require.NoError(t, err)
	return s
}
