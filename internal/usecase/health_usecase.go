package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) (map[string]string, bool)
}

// Pinger is anything the health check can probe: the pgx pool, the redis
// client wrapper, object storage.
type Pinger func(ctx context.Context) error

type healthUsecase struct {
	checks map[string]Pinger
}

// NewHealthUsecase takes named probes. Nil probes are reported as "disabled".
func NewHealthUsecase(checks map[string]Pinger) HealthUsecase {
	return &healthUsecase{checks: checks}
}

func (u *healthUsecase) Check(ctx context.Context) (map[string]string, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	healthy := true
	result := map[string]string{"status": "ok"}
	for name, ping := range u.checks {
		if ping == nil {
			result[name] = "disabled"
			continue
		}
		if err := ping(ctx); err != nil {
			result[name] = "down"
			healthy = false
			continue
		}
		result[name] = "up"
	}
	if !healthy {
		result["status"] = "degraded"
	}
	return result, healthy
}
