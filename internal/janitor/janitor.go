package janitor

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Yash-jaiswal2509/simple-chat-application/internal/core"
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/metrics"
)

// Janitor periodically deletes rooms that are empty and older than the
// retention threshold. Age is measured from room creation, not from the
// moment the room last emptied; the threshold is long relative to the
// sweep period, so briefly empty active rooms are not reaped.
type Janitor struct {
	registry  *core.Registry
	interval  time.Duration
	retention time.Duration
	log       *zerolog.Logger
}

// New constructs a janitor for the given registry.
func New(registry *core.Registry, interval, retention time.Duration, logger *zerolog.Logger) *Janitor {
	return &Janitor{
		registry:  registry,
		interval:  interval,
		retention: retention,
		log:       logger,
	}
}

// Run sweeps on a fixed period until the context is cancelled.
func (j *Janitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			j.sweep(now)
		}
	}
}

func (j *Janitor) sweep(now time.Time) {
	reaped := j.registry.Sweep(now.Add(-j.retention))
	if reaped > 0 {
		metrics.RoomsReapedTotal.Add(float64(reaped))
		j.log.Info().Int("rooms", reaped).Msg("reaped empty rooms")
	}
}
