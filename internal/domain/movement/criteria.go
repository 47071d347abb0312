package movement

import (
	"slices"
	"strings"

	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

// SortColumn columna de ordenamiento permitida en el listado.
type SortColumn string

// Columnas de ordenamiento.
const (
	SortNone              SortColumn = ""
	SortNumber            SortColumn = "nro"
	SortCreatedAt         SortColumn = "created_at"
	SortUpdatedAt         SortColumn = "updated_at"
	SortOriginAmount      SortColumn = "origin_amount"
	SortDestinationAmount SortColumn = "destination_amount"
	SortObservation       SortColumn = "observation"
	SortActive            SortColumn = "active"
	SortOriginBox         SortColumn = "origin_box"
	SortDestinationBox    SortColumn = "destination_box"
)

// Alias aceptados por la API (nombres originales de los campos).
var sortAliases = map[string]SortColumn{
	"nro":                      SortNumber,
	"number":                   SortNumber,
	"created_at":               SortCreatedAt,
	"createdat":                SortCreatedAt,
	"updated_at":               SortUpdatedAt,
	"updatedat":                SortUpdatedAt,
	"origin_amount":            SortOriginAmount,
	"monto_origen":             SortOriginAmount,
	"destination_amount":       SortDestinationAmount,
	"monto_destino":            SortDestinationAmount,
	"observation":              SortObservation,
	"observacion":              SortObservation,
	"active":                   SortActive,
	"activo":                   SortActive,
	"origin_box":               SortOriginBox,
	"caja_origen.descripcion":  SortOriginBox,
	"destination_box":          SortDestinationBox,
	"caja_destino.descripcion": SortDestinationBox,
}

// ParseSortColumn valida la columna; vacío significa orden de inserción.
func ParseSortColumn(s string) (SortColumn, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortNone, nil
	}
	col, ok := sortAliases[s]
	if !ok {
		return SortNone, domain.ErrInvalidInput
	}
	return col, nil
}

// SortDirection dirección de ordenamiento.
type SortDirection int

// Direcciones.
const (
	SortAsc  SortDirection = 1
	SortDesc SortDirection = -1
)

// ParseSortDirection acepta asc/desc y 1/-1. Vacío es ascendente.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "1", "asc":
		return SortAsc, nil
	case "-1", "desc":
		return SortDesc, nil
	}
	return SortAsc, domain.ErrInvalidInput
}

// Visibility cajas visibles para quien consulta. All omite el filtro.
type Visibility struct {
	All    bool
	boxIDs []string
}

// VisibleAll visibilidad sin restricciones (sin usuario o rol privilegiado).
func VisibleAll() Visibility {
	return Visibility{All: true}
}

// VisibilityFor evalúa una sola vez el rol del usuario.
func VisibilityFor(u *entity.User) Visibility {
	if u == nil || u.CanViewAllBoxes() {
		return VisibleAll()
	}
	ids := slices.Clone(u.BoxPermissions)
	slices.Sort(ids)
	return Visibility{boxIDs: slices.Compact(ids)}
}

// BoxIDs cajas permitidas (ordenadas, sin duplicados). Nunca nil si !All.
func (v Visibility) BoxIDs() []string {
	if v.boxIDs == nil {
		return []string{}
	}
	return v.boxIDs
}

// Allows indica si un movimiento con esas cajas es visible.
func (v Visibility) Allows(originBoxID, destinationBoxID string) bool {
	if v.All {
		return true
	}
	_, inOrigin := slices.BinarySearch(v.boxIDs, originBoxID)
	_, inDest := slices.BinarySearch(v.boxIDs, destinationBoxID)
	return inOrigin || inDest
}

// ListCriteria criterios del listado consumidos por el algoritmo fijo
// filtro(activo) → join → visibilidad → búsqueda → orden → paginación.
type ListCriteria struct {
	Sort       SortColumn
	Direction  SortDirection
	Offset     int
	PageSize   int // <= 0: sin límite
	Search     Search
	Visibility Visibility
	Active     *bool
}

// MatchesActive filtro exacto por estado (sin filtro si Active es nil).
func (c ListCriteria) MatchesActive(m *entity.Movement) bool {
	return c.Active == nil || m.Active == *c.Active
}
