package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/courseclip/syllabus-backend/internal/service"
)

// DeadlineWorker periodically recomputes the course list with next
// deadlines and rewrites the cache. "Next" is relative to the current
// calendar day, so a cached list naturally goes stale at midnight even when
// no data changes; the refresh keeps the dashboard read path warm and
// correct across day boundaries.
type DeadlineWorker struct {
	courses  *service.CourseService
	interval time.Duration
	log      zerolog.Logger
}

// NewDeadlineWorker creates a DeadlineWorker with the given refresh interval.
func NewDeadlineWorker(courses *service.CourseService, interval time.Duration, log zerolog.Logger) *DeadlineWorker {
	return &DeadlineWorker{
		courses:  courses,
		interval: interval,
		log:      log.With().Str("component", "deadline_worker").Logger(),
	}
}

// Start runs the refresh loop until ctx is cancelled. One refresh runs
// immediately so the cache is warm before traffic arrives.
func (w *DeadlineWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Msg("DeadlineWorker started")

	w.refresh(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("DeadlineWorker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *DeadlineWorker) refresh(ctx context.Context) {
	if err := w.courses.RefreshDeadlineCache(ctx); err != nil {
		if ctx.Err() == nil {
			w.log.Warn().Err(err).Msg("deadline cache refresh failed")
		}
		return
	}
	w.log.Debug().Msg("deadline cache refreshed")
}
