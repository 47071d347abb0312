package movement

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/cajas-api/internal/application/dto"
	"github.com/jhoicas/cajas-api/internal/domain"
	"github.com/jhoicas/cajas-api/internal/domain/entity"
	"github.com/jhoicas/cajas-api/internal/domain/movement"
	"github.com/jhoicas/cajas-api/internal/domain/repository"
	"github.com/jhoicas/cajas-api/pkg/logger"
)

// Config parámetros del caso de uso (ver config.LedgerConfig).
type Config struct {
	MaxAttempts    int
	RetryBaseDelay time.Duration
	ToggleTimeout  time.Duration
	ReportMaxRows  int
}

// UseCase orquesta los movimientos internos: alta con efecto en saldos,
// alta/baja atómica (toggle), actualización informativa y listado con permisos.
type UseCase struct {
	txRunner TxRunner
	movRepo  repository.MovementRepository
	boxRepo  repository.BoxRepository
	userRepo repository.UserRepository
	report   ReportGenerator
	export   ReportGenerator
	log      *logger.Logger
	tracer   trace.Tracer
	cfg      Config
	now      func() time.Time
}

// NewUseCase construye el caso de uso. report puede ser nil (sin reporte PDF).
func NewUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	boxRepo repository.BoxRepository,
	userRepo repository.UserRepository,
	report ReportGenerator,
	log *logger.Logger,
	cfg Config,
) *UseCase {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.ReportMaxRows <= 0 {
		cfg.ReportMaxRows = 1000
	}
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner: txRunner,
		movRepo:  movRepo,
		boxRepo:  boxRepo,
		userRepo: userRepo,
		report:   report,
		log:      log.Named("movements"),
		tracer:   defaultTracer(),
		cfg:      cfg,
		now:      time.Now,
	}
}

// WithSpreadsheet habilita Export con el generador de planillas g.
func (uc *UseCase) WithSpreadsheet(g ReportGenerator) *UseCase {
	uc.export = g
	return uc
}

// WithClock reemplaza el reloj (tests).
func (uc *UseCase) WithClock(now func() time.Time) *UseCase {
	uc.now = now
	return uc
}

// Create registra un movimiento activo y aplica sus montos en la misma transacción:
// débito en la caja origen y crédito en la destino.
func (uc *UseCase) Create(ctx context.Context, userID string, in dto.CreateMovementRequest) (_ *dto.MovementResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "movements.create", trace.WithAttributes(
		attribute.String("movement.origin_box_id", in.OriginBoxID),
		attribute.String("movement.destination_box_id", in.DestinationBoxID),
	))
	defer func() { endSpan(span, err) }()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.OriginBoxID == "" || in.DestinationBoxID == "" || in.OriginAmount == nil || in.DestinationAmount == nil {
		return nil, domain.ErrInvalidInput
	}
	// Una auto-transferencia no mueve fondos; se rechaza.
	if in.OriginBoxID == in.DestinationBoxID {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidAmount(*in.OriginAmount) || !entity.ValidAmount(*in.DestinationAmount) {
		return nil, fmt.Errorf("%w: monto negativo, con más de %d decimales o fuera de rango", domain.ErrInvalidInput, entity.AmountScale)
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !movement.VisibilityFor(user).Allows(in.OriginBoxID, in.DestinationBoxID) {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	m := &entity.Movement{
		ID:                uuid.New().String(),
		OriginBoxID:       in.OriginBoxID,
		DestinationBoxID:  in.DestinationBoxID,
		OriginAmount:      *in.OriginAmount,
		DestinationAmount: *in.DestinationAmount,
		Observation:       strings.TrimSpace(in.Observation),
		Active:            true,
		CreatedBy:         userID,
		UpdatedBy:         userID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, boxRepo repository.BoxRepository) error {
		// Bloquea las cajas en orden ascendente antes de tocar saldos
		for _, boxID := range movement.LockOrder(m) {
			if _, err := boxRepo.GetForUpdate(ctx, boxID); err != nil {
				return err
			}
		}
		if err := movRepo.Create(ctx, m); err != nil {
			return err
		}
		return applyDeltas(ctx, boxRepo, movement.ActivationDeltas(m), now)
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("movement.id", m.ID), attribute.Int64("movement.nro", m.Number))

	uc.log.Ctx(ctx).Info().
		Str("movement_id", m.ID).
		Int64("nro", m.Number).
		Str("origin_box_id", m.OriginBoxID).
		Str("destination_box_id", m.DestinationBoxID).
		Msg("movimiento registrado")
	return toMovementResponse(m), nil
}

// GetByID devuelve la vista unida. Un usuario sin rol privilegiado solo ve movimientos
// cuya caja origen o destino está en sus permisos.
func (uc *UseCase) GetByID(ctx context.Context, id, userID string) (*dto.JoinedMovementResponse, error) {
	vis, err := uc.visibility(ctx, userID)
	if err != nil {
		return nil, err
	}
	j, err := uc.movRepo.GetJoinedByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !vis.Allows(j.OriginBox.ID, j.DestinationBox.ID) {
		return nil, domain.ErrForbidden
	}
	return toJoinedResponse(j), nil
}

// List lista movimientos filtrados y paginados junto con el total filtrado.
func (uc *UseCase) List(ctx context.Context, userID string, in dto.ListMovementsRequest) (_ *dto.MovementListResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "movements.list")
	defer func() { endSpan(span, err) }()

	in.Clamp()
	crit, err := uc.criteria(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	crit.Offset = in.Offset
	crit.PageSize = in.Limit

	rows, total, err := uc.movRepo.List(ctx, crit)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("movements.total", total), attribute.Int("movements.page_size", len(rows)))
	items := make([]dto.JoinedMovementResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *toJoinedResponse(&rows[i]))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: total},
	}, nil
}

// UpdateFields actualiza campos informativos (observación). No toca montos, estado ni saldos.
func (uc *UseCase) UpdateFields(ctx context.Context, id, userID string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if in.Observation == nil {
		return nil, domain.ErrInvalidInput
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	current, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !movement.VisibilityFor(user).Allows(current.OriginBoxID, current.DestinationBoxID) {
		return nil, domain.ErrForbidden
	}
	obs := strings.TrimSpace(*in.Observation)
	m, err := uc.movRepo.UpdateInfo(ctx, id, entity.MovementPatch{Observation: &obs}, userID, uc.now())
	if err != nil {
		return nil, err
	}
	return toMovementResponse(m), nil
}

// Toggle da de baja un movimiento activo (reintegra origen, revierte destino) o de alta
// uno inactivo, solo sobre movimientos visibles para el usuario. Saldos y estado se
// escriben en una sola transacción; ante ErrConcurrency se reintenta con backoff
// releyendo el estado previo.
func (uc *UseCase) Toggle(ctx context.Context, id, userID string) (_ *dto.MovementResponse, err error) {
	ctx, span := uc.tracer.Start(ctx, "movements.toggle", trace.WithAttributes(attribute.String("movement.id", id)))
	defer func() { endSpan(span, err) }()

	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	vis := movement.VisibilityFor(user)
	if uc.cfg.ToggleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.ToggleTimeout)
		defer cancel()
	}

	var m *entity.Movement
	attempts := 0
	op := func() error {
		attempts++
		if attempts > 1 {
			span.AddEvent("retry", trace.WithAttributes(attribute.Int("attempt", attempts)))
		}
		var opErr error
		m, opErr = uc.toggleOnce(ctx, id, userID, vis)
		if opErr != nil && !errors.Is(opErr, domain.ErrConcurrency) {
			return backoff.Permanent(opErr)
		}
		return opErr
	}
	notify := func(cerr error, wait time.Duration) {
		uc.log.Ctx(ctx).Warn().Err(cerr).
			Str("movement_id", id).
			Int("attempt", attempts).
			Int("max_attempts", uc.cfg.MaxAttempts).
			Dur("wait", wait).
			Msg("alta/baja en conflicto")
	}
	err = backoff.RetryNotify(op, retryPolicy(ctx, uc.cfg.RetryBaseDelay, uc.cfg.MaxAttempts), notify)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		err = fmt.Errorf("alta/baja movimiento %s: %w", id, errors.Join(err, ctx.Err()))
	}
	span.SetAttributes(attribute.Int("movement.attempts", attempts))
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("movement.active", m.Active))

	uc.log.Ctx(ctx).Info().
		Str("movement_id", m.ID).
		Bool("active", m.Active).
		Str("updated_by", userID).
		Msg("alta/baja de movimiento aplicada")
	return toMovementResponse(m), nil
}

func (uc *UseCase) toggleOnce(ctx context.Context, id, userID string, vis movement.Visibility) (*entity.Movement, error) {
	var out *entity.Movement
	err := uc.txRunner.Run(ctx, func(movRepo repository.MovementRepository, boxRepo repository.BoxRepository) error {
		// Bloquea el movimiento: dos toggles del mismo ID nunca se intercalan
		m, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !vis.Allows(m.OriginBoxID, m.DestinationBoxID) {
			return domain.ErrForbidden
		}
		for _, boxID := range movement.LockOrder(m) {
			if _, err := boxRepo.GetForUpdate(ctx, boxID); err != nil {
				return err
			}
		}
		now := uc.now()
		if err := applyDeltas(ctx, boxRepo, movement.ToggleDeltas(m), now); err != nil {
			return err
		}
		out, err = movRepo.SetActive(ctx, id, !m.Active, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Report genera el PDF del listado filtrado (sin paginar, hasta ReportMaxRows filas).
func (uc *UseCase) Report(ctx context.Context, userID string, in dto.ListMovementsRequest) ([]byte, error) {
	if uc.report == nil {
		return nil, fmt.Errorf("reporte PDF no configurado")
	}
	return uc.render(ctx, uc.report, userID, in)
}

// Export genera la planilla del listado filtrado con los mismos límites que Report.
func (uc *UseCase) Export(ctx context.Context, userID string, in dto.ListMovementsRequest) ([]byte, error) {
	if uc.export == nil {
		return nil, fmt.Errorf("exportación a planilla no configurada")
	}
	return uc.render(ctx, uc.export, userID, in)
}

func (uc *UseCase) render(ctx context.Context, gen ReportGenerator, userID string, in dto.ListMovementsRequest) ([]byte, error) {
	crit, err := uc.criteria(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	crit.Offset = 0
	crit.PageSize = uc.cfg.ReportMaxRows

	rows, total, err := uc.movRepo.List(ctx, crit)
	if err != nil {
		return nil, err
	}
	return gen.GenerateMovementReport(ctx, rows, total, uc.now())
}

// visibility evalúa una sola vez el rol del usuario que consulta. Sin usuario no hay filtro.
func (uc *UseCase) visibility(ctx context.Context, userID string) (movement.Visibility, error) {
	if userID == "" {
		return movement.VisibleAll(), nil
	}
	u, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return movement.Visibility{}, err
	}
	return movement.VisibilityFor(u), nil
}

func (uc *UseCase) criteria(ctx context.Context, userID string, in dto.ListMovementsRequest) (movement.ListCriteria, error) {
	col, err := movement.ParseSortColumn(in.Column)
	if err != nil {
		return movement.ListCriteria{}, err
	}
	dir, err := movement.ParseSortDirection(in.Direction)
	if err != nil {
		return movement.ListCriteria{}, err
	}
	active, err := parseActive(in.Active)
	if err != nil {
		return movement.ListCriteria{}, err
	}
	search, err := movement.ParseSearch(in.Search)
	if err != nil {
		return movement.ListCriteria{}, err
	}
	vis, err := uc.visibility(ctx, userID)
	if err != nil {
		return movement.ListCriteria{}, err
	}
	return movement.ListCriteria{
		Sort:       col,
		Direction:  dir,
		Search:     search,
		Visibility: vis,
		Active:     active,
	}, nil
}

func parseActive(s string) (*bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	return &b, nil
}

// applyDeltas suma los ajustes agrupados por caja (una auto-transferencia genera un único ajuste).
func applyDeltas(ctx context.Context, boxRepo repository.BoxRepository, deltas []movement.BalanceDelta, at time.Time) error {
	for _, d := range movement.NetDeltas(deltas) {
		if d.Amount.Equal(decimal.Zero) {
			continue
		}
		if _, err := boxRepo.AdjustBalance(ctx, d.BoxID, d.Amount, at); err != nil {
			return err
		}
	}
	return nil
}
