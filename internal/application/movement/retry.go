package movement

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryPolicy backoff exponencial con jitter para reintentar conflictos de
// concurrencia: como mucho maxAttempts ejecuciones, cortado por ctx.
// Sin base el reintento es inmediato.
func retryPolicy(ctx context.Context, base time.Duration, maxAttempts int) backoff.BackOff {
	var b backoff.BackOff = &backoff.ZeroBackOff{}
	if base > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = base
		eb.Multiplier = 2
		eb.RandomizationFactor = 0.5
		eb.MaxInterval = base << 6
		eb.MaxElapsedTime = 0 // el límite total lo pone ToggleTimeout
		eb.Reset()
		b = eb
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(maxAttempts, 1)-1)), ctx)
}
