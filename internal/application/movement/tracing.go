package movement

import (
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/cajas-api/internal/domain"
)

const tracerName = "cajas-api/movements"

func defaultTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// WithTracerProvider usa tp en lugar del proveedor global de OpenTelemetry.
func (uc *UseCase) WithTracerProvider(tp trace.TracerProvider) *UseCase {
	uc.tracer = tp.Tracer(tracerName)
	return uc
}

// endSpan marca el span como fallido solo ante errores inesperados: NotFound,
// validación y permisos son respuestas normales del dominio.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		if !expected(err) {
			span.SetStatus(codes.Error, err.Error())
		}
	}
	span.End()
}

func expected(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrForbidden) ||
		errors.Is(err, domain.ErrUnauthorized)
}
