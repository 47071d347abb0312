package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/movement"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo implementación en memoria de MovementRepository.
type MovementRepo struct {
	g guard
}

// NewMovementRepository construye el repositorio fuera de transacción.
func NewMovementRepository(s *Store) *MovementRepo {
	return &MovementRepo{g: guard{s: s}}
}

// Create persiste el movimiento. Una referencia inexistente se rechaza como
// ErrInvalidInput, igual que la violación de FK en postgres.
func (r *MovementRepo) Create(_ context.Context, m *entity.Movement) error {
	defer r.g.lock()()
	s := r.g.s
	if m.OriginBoxID == "" || m.DestinationBoxID == "" || m.CreatedBy == "" {
		return domain.ErrInvalidInput
	}
	for _, id := range []string{m.OriginBoxID, m.DestinationBoxID} {
		if _, ok := s.boxes[id]; !ok {
			return &domain.EntityError{Kind: domain.KindBox, ID: id, Err: domain.ErrInvalidInput}
		}
	}
	for _, id := range []string{m.CreatedBy, m.UpdatedBy} {
		if _, ok := s.users[id]; !ok {
			return &domain.EntityError{Kind: domain.KindUser, ID: id, Err: domain.ErrInvalidInput}
		}
	}
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if _, exists := s.movements[m.ID]; exists {
		return domain.ErrDuplicate
	}
	m.Number = 0
	m.Active = true
	s.insertMovement(m)
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	defer r.g.lock()()
	m, ok := r.g.s.movements[id]
	if !ok {
		return nil, domain.NotFound(domain.KindMovement, id)
	}
	return &m, nil
}

// GetForUpdate en memoria equivale a GetByID: la transacción ya retiene el lock global.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

// GetJoinedByID devuelve la vista unida del movimiento.
func (r *MovementRepo) GetJoinedByID(_ context.Context, id string) (*entity.JoinedMovement, error) {
	defer r.g.lock()()
	m, ok := r.g.s.movements[id]
	if !ok {
		return nil, domain.NotFound(domain.KindMovement, id)
	}
	j, err := r.join(m)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// UpdateInfo actualiza solo la observación y los datos de auditoría.
func (r *MovementRepo) UpdateInfo(_ context.Context, id string, patch entity.MovementPatch, updatedBy string, at time.Time) (*entity.Movement, error) {
	defer r.g.lock()()
	s := r.g.s
	m, ok := s.movements[id]
	if !ok {
		return nil, domain.NotFound(domain.KindMovement, id)
	}
	if _, ok := s.users[updatedBy]; !ok {
		return nil, domain.NotFound(domain.KindUser, updatedBy)
	}
	if patch.Observation != nil {
		m.Observation = *patch.Observation
	}
	m.UpdatedBy = updatedBy
	m.UpdatedAt = at
	s.movements[id] = m
	return &m, nil
}

// SetActive cambia el estado del movimiento (sin tocar saldos).
func (r *MovementRepo) SetActive(_ context.Context, id string, active bool, updatedBy string, at time.Time) (*entity.Movement, error) {
	defer r.g.lock()()
	s := r.g.s
	m, ok := s.movements[id]
	if !ok {
		return nil, domain.NotFound(domain.KindMovement, id)
	}
	if _, ok := s.users[updatedBy]; !ok {
		return nil, domain.NotFound(domain.KindUser, updatedBy)
	}
	m.Active = active
	m.UpdatedBy = updatedBy
	m.UpdatedAt = at
	s.movements[id] = m
	return &m, nil
}

// List filtra por estado, une con cajas y usuarios y delega el resto en movement.Select.
// Una referencia huérfana hace fallar todo el listado con ErrIntegrity.
func (r *MovementRepo) List(ctx context.Context, c movement.ListCriteria) ([]entity.JoinedMovement, int, error) {
	defer r.g.lock()()
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s := r.g.s
	joined := make([]entity.JoinedMovement, 0, len(s.order))
	for _, id := range s.order {
		m := s.movements[id]
		if !c.MatchesActive(&m) {
			continue
		}
		j, err := r.join(m)
		if err != nil {
			return nil, 0, err
		}
		joined = append(joined, j)
	}
	page, total := movement.Select(joined, c)
	return page, total, nil
}

func (r *MovementRepo) join(m entity.Movement) (entity.JoinedMovement, error) {
	s := r.g.s
	j := entity.JoinedMovement{Movement: m}
	var ok bool
	if j.OriginBox, ok = s.boxes[m.OriginBoxID]; !ok {
		return j, domain.Integrity(domain.KindBox, m.OriginBoxID)
	}
	if j.DestinationBox, ok = s.boxes[m.DestinationBoxID]; !ok {
		return j, domain.Integrity(domain.KindBox, m.DestinationBoxID)
	}
	if j.Creator, ok = s.users[m.CreatedBy]; !ok {
		return j, domain.Integrity(domain.KindUser, m.CreatedBy)
	}
	if j.Updater, ok = s.users[m.UpdatedBy]; !ok {
		return j, domain.Integrity(domain.KindUser, m.UpdatedBy)
	}
	return j, nil
}
