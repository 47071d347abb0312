package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrIntegrity    = errors.New("inconsistencia de datos")
	ErrConcurrency  = errors.New("conflicto de concurrencia, reintente")
)

// Tipos de entidad usados en EntityError.
const (
	KindMovement = "movimiento"
	KindBox      = "caja"
	KindUser     = "usuario"
)

// EntityError asocia un error de dominio con la entidad y el ID que lo causaron.
// errors.Is(err, ErrNotFound) sigue funcionando a través de Unwrap.
type EntityError struct {
	Kind string
	ID   string
	Err  error
}

func (e *EntityError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error { return e.Err }

// NotFound construye un ErrNotFound con contexto.
func NotFound(kind, id string) error {
	return &EntityError{Kind: kind, ID: id, Err: ErrNotFound}
}

// Integrity construye un ErrIntegrity con contexto (referencia huérfana, join 1:1 fallido).
func Integrity(kind, id string) error {
	return &EntityError{Kind: kind, ID: id, Err: ErrIntegrity}
}
