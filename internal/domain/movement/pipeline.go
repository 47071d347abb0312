package movement

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

// Select aplica visibilidad, búsqueda, orden y paginación sobre movimientos ya unidos.
// total es la cantidad filtrada antes de paginar, calculada con el mismo predicado que la página.
func Select(items []entity.JoinedMovement, c ListCriteria) (page []entity.JoinedMovement, total int) {
	filtered := make([]entity.JoinedMovement, 0, len(items))
	for i := range items {
		it := &items[i]
		if !c.MatchesActive(&it.Movement) {
			continue
		}
		if !c.Visibility.Allows(it.OriginBox.ID, it.DestinationBox.ID) {
			continue
		}
		if !c.Search.Matches(it) {
			continue
		}
		filtered = append(filtered, *it)
	}

	Sort(filtered, c.Sort, c.Direction)
	return Paginate(filtered, c.Offset, c.PageSize), len(filtered)
}

// Sort ordena de forma estable por la columna indicada; nro es siempre el desempate.
// Sin columna se respeta el orden de inserción (nro ascendente).
func Sort(items []entity.JoinedMovement, col SortColumn, dir SortDirection) {
	if dir == 0 {
		dir = SortAsc
	}
	slices.SortStableFunc(items, func(a, b entity.JoinedMovement) int {
		if c := compareBy(&a, &b, col) * int(dir); c != 0 {
			return c
		}
		return cmp.Compare(a.Number, b.Number)
	})
}

func compareBy(a, b *entity.JoinedMovement, col SortColumn) int {
	switch col {
	case SortNumber:
		return cmp.Compare(a.Number, b.Number)
	case SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	case SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortOriginAmount:
		return a.OriginAmount.Cmp(b.OriginAmount)
	case SortDestinationAmount:
		return a.DestinationAmount.Cmp(b.DestinationAmount)
	case SortObservation:
		return strings.Compare(a.Observation, b.Observation)
	case SortActive:
		return cmp.Compare(boolRank(a.Active), boolRank(b.Active))
	case SortOriginBox:
		return strings.Compare(a.OriginBox.Description, b.OriginBox.Description)
	case SortDestinationBox:
		return strings.Compare(a.DestinationBox.Description, b.DestinationBox.Description)
	}
	return 0
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Paginate recorta offset/pageSize. pageSize <= 0 devuelve todo desde offset.
func Paginate(items []entity.JoinedMovement, offset, pageSize int) []entity.JoinedMovement {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []entity.JoinedMovement{}
	}
	end := len(items)
	if pageSize > 0 && offset+pageSize < end {
		end = offset + pageSize
	}
	return items[offset:end]
}
