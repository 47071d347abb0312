package movement

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

// Search término de búsqueda ya procesado.
//
// Pattern: tokens separados por espacios, escapados y unidos con ".*"
// (coincidencia parcial, sin distinguir mayúsculas). Lo usa Postgres con ~*.
// Number: presente si el término completo es un entero; compara exacto contra nro.
type Search struct {
	Term    string
	Pattern string
	Number  *int64

	re *regexp.Regexp
}

// ParseSearch construye la búsqueda a partir del texto libre. Un término vacío
// (o solo espacios) devuelve una búsqueda vacía que acepta todo. Un término que
// no es UTF-8 válido es ErrInvalidInput.
//
// La comparación usa el plegado simple de (?i), el mismo criterio que ~* en
// Postgres: "strasse" no coincide con "Straße".
func ParseSearch(term string) (Search, error) {
	if !utf8.ValidString(term) {
		return Search{}, fmt.Errorf("%w: término de búsqueda no es UTF-8", domain.ErrInvalidInput)
	}
	tokens := strings.Fields(term)
	if len(tokens) == 0 {
		return Search{}, nil
	}
	for i, tok := range tokens {
		tokens[i] = regexp.QuoteMeta(tok)
	}
	pattern := strings.Join(tokens, ".*")
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Search{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	s := Search{Term: term, Pattern: pattern, re: re}
	if n, err := strconv.ParseInt(strings.TrimSpace(term), 10, 64); err == nil {
		s.Number = &n
	}
	return s, nil
}

// IsZero indica que no hay búsqueda.
func (s Search) IsZero() bool {
	return s.Pattern == ""
}

// Matches evalúa la búsqueda sobre la vista unida: descripción de caja origen,
// descripción de caja destino, observación o nro exacto.
func (s Search) Matches(j *entity.JoinedMovement) bool {
	if s.IsZero() {
		return true
	}
	if s.Number != nil && j.Number == *s.Number {
		return true
	}
	re := s.re
	if re == nil {
		var err error
		if re, err = regexp.Compile("(?i)" + s.Pattern); err != nil {
			return false
		}
	}
	for _, field := range []string{j.OriginBox.Description, j.DestinationBox.Description, j.Observation} {
		if re.MatchString(field) {
			return true
		}
	}
	return false
}
