package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/movement"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `m.id, m.nro, m.origin_box_id, m.destination_box_id, m.origin_amount,
	m.destination_amount, m.observation, m.active, m.created_by, m.updated_by, m.created_at, m.updated_at`

// Los cuatro JOIN son 1:1 garantizados por las FK.
const joinedFrom = `
	FROM internal_movements m
	JOIN boxes ob ON ob.id = m.origin_box_id
	JOIN boxes db ON db.id = m.destination_box_id
	JOIN users cu ON cu.id = m.created_by
	JOIN users uu ON uu.id = m.updated_by`

const joinedColumns = movementColumns + `,
	ob.id, ob.description, ob.balance, ob.active, ob.created_at, ob.updated_at,
	db.id, db.description, db.balance, db.active, db.created_at, db.updated_at,
	cu.id, cu.name, cu.email, cu.role, cu.box_permissions, cu.created_at, cu.updated_at,
	uu.id, uu.name, uu.email, uu.role, uu.box_permissions, uu.created_at, uu.updated_at`

// Expresiones SQL por columna de orden. Los textos se comparan con COLLATE "C"
// para ordenar igual que el backend en memoria.
var sortExpr = map[movement.SortColumn]string{
	movement.SortNumber:            `m.nro`,
	movement.SortCreatedAt:         `m.created_at`,
	movement.SortUpdatedAt:         `m.updated_at`,
	movement.SortOriginAmount:      `m.origin_amount`,
	movement.SortDestinationAmount: `m.destination_amount`,
	movement.SortObservation:       `m.observation COLLATE "C"`,
	movement.SortActive:            `m.active`,
	movement.SortOriginBox:         `ob.description COLLATE "C"`,
	movement.SortDestinationBox:    `db.description COLLATE "C"`,
}

// MovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento activo; nro lo asigna la base (IDENTITY).
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	m.Active = true
	query := `
		INSERT INTO internal_movements (id, origin_box_id, destination_box_id, origin_amount, destination_amount,
			observation, active, created_by, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING nro`
	err := r.q.QueryRow(ctx, query,
		m.ID, m.OriginBoxID, m.DestinationBoxID, m.OriginAmount, m.DestinationAmount,
		m.Observation, m.Active, m.CreatedBy, m.UpdatedBy, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.Number)
	if err != nil {
		return mapPgError("create movement", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM internal_movements m WHERE m.id = $1`
	return r.getOne(ctx, "get movement", id, query, id)
}

// GetForUpdate obtiene el movimiento y bloquea la fila hasta el fin de la transacción.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM internal_movements m WHERE m.id = $1 FOR UPDATE`
	return r.getOne(ctx, "get movement for update", id, query, id)
}

// GetJoinedByID obtiene la vista unida con cajas y usuarios.
func (r *MovementRepo) GetJoinedByID(ctx context.Context, id string) (*entity.JoinedMovement, error) {
	query := `SELECT ` + joinedColumns + joinedFrom + ` WHERE m.id = $1`
	j, err := scanJoined(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.KindMovement, id)
		}
		return nil, mapPgError("get joined movement", err)
	}
	return j, nil
}

// UpdateInfo actualiza la observación y la auditoría; montos y estado no se tocan.
func (r *MovementRepo) UpdateInfo(ctx context.Context, id string, patch entity.MovementPatch, updatedBy string, at time.Time) (*entity.Movement, error) {
	query := `
		UPDATE internal_movements m
		SET observation = COALESCE($2, m.observation), updated_by = $3, updated_at = $4
		WHERE m.id = $1
		RETURNING ` + movementColumns
	return r.getOne(ctx, "update movement", id, query, id, patch.Observation, updatedBy, at)
}

// SetActive cambia el estado del movimiento. Los saldos los ajusta el llamador en la misma tx.
func (r *MovementRepo) SetActive(ctx context.Context, id string, active bool, updatedBy string, at time.Time) (*entity.Movement, error) {
	query := `
		UPDATE internal_movements m
		SET active = $2, updated_by = $3, updated_at = $4
		WHERE m.id = $1
		RETURNING ` + movementColumns
	return r.getOne(ctx, "set movement active", id, query, id, active, updatedBy, at)
}

// List devuelve la página y el total filtrado. Ambas consultas comparten el WHERE y
// corren en la misma instantánea.
func (r *MovementRepo) List(ctx context.Context, c movement.ListCriteria) ([]entity.JoinedMovement, int, error) {
	where, args := listWhere(c)

	page := `SELECT ` + joinedColumns + joinedFrom + where + listOrder(c)
	pageArgs := args
	if c.Offset > 0 {
		pageArgs = append(pageArgs, c.Offset)
		page += fmt.Sprintf(" OFFSET $%d", len(pageArgs))
	}
	if c.PageSize > 0 {
		pageArgs = append(pageArgs, c.PageSize)
		page += fmt.Sprintf(" LIMIT $%d", len(pageArgs))
	}
	count := `SELECT COUNT(*)` + joinedFrom + where

	var (
		items []entity.JoinedMovement
		total int
	)
	err := readSnapshot(ctx, r.q, func(q Querier) error {
		if err := q.QueryRow(ctx, count, args...).Scan(&total); err != nil {
			return mapPgError("count movements", err)
		}
		rows, err := q.Query(ctx, page, pageArgs...)
		if err != nil {
			return mapPgError("list movements", err)
		}
		defer rows.Close()
		items = make([]entity.JoinedMovement, 0)
		for rows.Next() {
			j, err := scanJoined(rows)
			if err != nil {
				return mapPgError("scan movement", err)
			}
			items = append(items, *j)
		}
		if err := rows.Err(); err != nil {
			return mapPgError("list movements", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// listWhere arma el predicado común a la página y al conteo.
func listWhere(c movement.ListCriteria) (string, []any) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if c.Active != nil {
		conds = append(conds, "m.active = "+arg(*c.Active))
	}
	if !c.Visibility.All {
		p := arg(c.Visibility.BoxIDs())
		conds = append(conds, fmt.Sprintf("(ob.id = ANY(%s) OR db.id = ANY(%s))", p, p))
	}
	if !c.Search.IsZero() {
		p := arg(c.Search.Pattern)
		cond := fmt.Sprintf("ob.description ~* %s OR db.description ~* %s OR m.observation ~* %s", p, p, p)
		if c.Search.Number != nil {
			cond += " OR m.nro = " + arg(*c.Search.Number)
		}
		conds = append(conds, "("+cond+")")
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// listOrder: columna pedida y nro ascendente como desempate. Sin columna, orden de inserción.
func listOrder(c movement.ListCriteria) string {
	expr, ok := sortExpr[c.Sort]
	if !ok {
		return " ORDER BY m.nro ASC"
	}
	dir := "ASC"
	if c.Direction == movement.SortDesc {
		dir = "DESC"
	}
	if c.Sort == movement.SortNumber {
		return " ORDER BY m.nro " + dir
	}
	return fmt.Sprintf(" ORDER BY %s %s, m.nro ASC", expr, dir)
}

func (r *MovementRepo) getOne(ctx context.Context, op, id, query string, args ...any) (*entity.Movement, error) {
	var m entity.Movement
	err := r.q.QueryRow(ctx, query, args...).Scan(movementDest(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound(domain.KindMovement, id)
		}
		return nil, mapPgError(op, err)
	}
	return &m, nil
}

func movementDest(m *entity.Movement) []any {
	return []any{
		&m.ID, &m.Number, &m.OriginBoxID, &m.DestinationBoxID, &m.OriginAmount,
		&m.DestinationAmount, &m.Observation, &m.Active, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt,
	}
}

func scanJoined(row pgx.Row) (*entity.JoinedMovement, error) {
	var j entity.JoinedMovement
	var creatorRole, updaterRole string
	dest := movementDest(&j.Movement)
	dest = append(dest,
		&j.OriginBox.ID, &j.OriginBox.Description, &j.OriginBox.Balance, &j.OriginBox.Active, &j.OriginBox.CreatedAt, &j.OriginBox.UpdatedAt,
		&j.DestinationBox.ID, &j.DestinationBox.Description, &j.DestinationBox.Balance, &j.DestinationBox.Active, &j.DestinationBox.CreatedAt, &j.DestinationBox.UpdatedAt,
		&j.Creator.ID, &j.Creator.Name, &j.Creator.Email, &creatorRole, &j.Creator.BoxPermissions, &j.Creator.CreatedAt, &j.Creator.UpdatedAt,
		&j.Updater.ID, &j.Updater.Name, &j.Updater.Email, &updaterRole, &j.Updater.BoxPermissions, &j.Updater.CreatedAt, &j.Updater.UpdatedAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	j.Creator.Role = entity.Role(creatorRole)
	j.Updater.Role = entity.Role(updaterRole)
	return &j, nil
}
