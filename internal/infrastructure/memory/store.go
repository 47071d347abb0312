// Package memory implementa los puertos de persistencia en memoria (desarrollo y tests).
//
// Un único mutex serializa todo acceso: una transacción lo retiene desde el inicio
// hasta el commit, por lo que ninguna lectura observa un alta/baja a medio aplicar.
// El rollback restaura la instantánea tomada al iniciar la transacción.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/jhoicas/cajas-api/internal/domain/entity"
)

// Store estado compartido por los repositorios en memoria.
type Store struct {
	mu         sync.Mutex
	boxes      map[string]entity.Box
	users      map[string]entity.User
	movements  map[string]entity.Movement
	order      []string // IDs de movimientos en orden de inserción
	lastNumber int64
	now        func() time.Time
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		boxes:     make(map[string]entity.Box),
		users:     make(map[string]entity.User),
		movements: make(map[string]entity.Movement),
		now:       time.Now,
	}
}

// PutBox inserta o reemplaza una caja (las cajas se administran fuera de este servicio).
func (s *Store) PutBox(b entity.Box) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = s.now()
	}
	if b.UpdatedAt.IsZero() {
		b.UpdatedAt = b.CreatedAt
	}
	s.boxes[b.ID] = b
}

// PutUser inserta o reemplaza un usuario.
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.BoxPermissions = slices.Clone(u.BoxPermissions)
	s.users[u.ID] = u
}

// PutMovement inserta un movimiento tal cual, sin efectos sobre saldos ni validar
// referencias. Útil para cargar datos existentes.
func (s *Store) PutMovement(m entity.Movement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertMovement(&m)
}

// Balance saldo actual de una caja (false si no existe).
func (s *Store) Balance(boxID string) (entity.Box, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.boxes[boxID]
	return b, ok
}

func (s *Store) insertMovement(m *entity.Movement) {
	if m.Number == 0 {
		s.lastNumber++
		m.Number = s.lastNumber
	} else if m.Number > s.lastNumber {
		s.lastNumber = m.Number
	}
	s.movements[m.ID] = *m
	s.order = append(s.order, m.ID)
}

type snapshot struct {
	boxes      map[string]entity.Box
	movements  map[string]entity.Movement
	order      []string
	lastNumber int64
}

// snapshot requiere s.mu tomado. Los valores son structs sin punteros compartidos
// mutables, por lo que una copia superficial de los mapas alcanza.
func (s *Store) snapshot() snapshot {
	return snapshot{
		boxes:      maps.Clone(s.boxes),
		movements:  maps.Clone(s.movements),
		order:      slices.Clone(s.order),
		lastNumber: s.lastNumber,
	}
}

func (s *Store) restore(snap snapshot) {
	s.boxes = snap.boxes
	s.movements = snap.movements
	s.order = snap.order
	s.lastNumber = snap.lastNumber
}

// guard toma el mutex salvo que la operación ya corra dentro de una transacción.
type guard struct {
	s    *Store
	inTx bool
}

func (g guard) lock() func() {
	if g.inTx {
		return func() {}
	}
	g.s.mu.Lock()
	return g.s.mu.Unlock
}

// UpsertBox adapta PutBox a la carga de fixtures.
func (s *Store) UpsertBox(_ context.Context, b *entity.Box) error {
	s.PutBox(*b)
	return nil
}

// UpsertUser adapta PutUser a la carga de fixtures.
func (s *Store) UpsertUser(_ context.Context, u *entity.User) error {
	s.PutUser(*u)
	return nil
}
