package janitor

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dataqueryai/dataquery/internal/dataset"
	"github.com/dataqueryai/dataquery/internal/metrics"
	"github.com/dataqueryai/dataquery/internal/session"
	"github.com/robfig/cron/v3"
)

// Run starts a background cron that evicts expired datasets and prunes the
// session revocation set every interval. Returns the cron so the caller can
// Stop it on shutdown.
func Run(datasets *dataset.Store, sessions *session.Manager, every time.Duration) (*cron.Cron, error) {
	if every <= 0 {
		every = 5 * time.Minute
	}

	c := cron.New()
	spec := fmt.Sprintf("@every %s", every)

	_, err := c.AddFunc(spec, func() {
		now := time.Now()
		if n := datasets.EvictExpired(now); n > 0 {
			slog.Info("janitor: evicted expired datasets", "count", n)
		}
		metrics.SetDatasetsActive(datasets.Len())
		if n := sessions.PruneRevoked(now); n > 0 {
			slog.Info("janitor: pruned revoked tokens", "count", n)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("janitor: add job: %w", err)
	}

	c.Start()
	return c, nil
}
