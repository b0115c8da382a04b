package monitoring

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spacesedan/reviewlens/internal/classifier"
)

const HEALTHCHECK_TIMER = 15

const canaryText = "health check probe"

// MonitorClassifierHealth runs a canary classification on an interval and
// records the result. The probe text never reaches user-facing output.
func MonitorClassifierHealth(ctx context.Context, c classifier.Classifier, healthy *atomic.Bool) {
	ticker := time.NewTicker(time.Second * HEALTHCHECK_TIMER)
	defer ticker.Stop()

	healthy.Store(probe(ctx, c))

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			isHealthy := probe(ctx, c)
			healthy.Store(isHealthy)
			if !isHealthy {
				slog.Warn("[HealthCheck] Classifier is unhealthy",
					slog.String("backend", c.Name()))
			}
		}
	}
}

func probe(ctx context.Context, c classifier.Classifier) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := c.Classify(probeCtx, canaryText)
	return err == nil
}
