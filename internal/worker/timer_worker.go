package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/examroom/examroom-backend/internal/session"
)

// TimerWorker is the single clock source for every exam countdown. One tick
// per second is fanned out to the session stores; stores without an
// in-progress attempt ignore it, and a store whose countdown hits zero
// submits itself. Owning the clock here guarantees no attempt ever receives
// two competing tick streams.
type TimerWorker struct {
	manager *session.Manager
	log     zerolog.Logger
}

// NewTimerWorker creates a TimerWorker.
func NewTimerWorker(manager *session.Manager, log zerolog.Logger) *TimerWorker {
	return &TimerWorker{
		manager: manager,
		log:     log.With().Str("component", "timer_worker").Logger(),
	}
}

// Start runs the tick loop until ctx is cancelled.
func (w *TimerWorker) Start(ctx context.Context) {
	w.log.Info().Msg("TimerWorker started")

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("TimerWorker stopped")
			return
		case <-ticker.C:
			w.manager.TickAll(ctx)
		}
	}
}
