package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

// Sweeper periodically releases expired Pending bookings and purges dead
// refresh tokens. Confirm still checks expiry on its own; the sweeper only
// frees seats sooner.
type Sweeper struct {
	engine   *Engine
	tokens   TokenStore // optional
	interval time.Duration
	log      zerolog.Logger
}

func NewSweeper(engine *Engine, tokens TokenStore, interval time.Duration, log zerolog.Logger) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{engine: engine, tokens: tokens, interval: interval, log: log.With().Str("component", "sweeper").Logger()}
}

// Run schedules the sweep and blocks until ctx is canceled.
func (s *Sweeper) Run(ctx context.Context) error {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return fmt.Errorf("new scheduler: %w", err)
	}
	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() { s.Tick(ctx) }),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("sweep-expired-bookings"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("schedule sweep: %w", err)
	}
	sched.Start()
	s.log.Info().Dur("interval", s.interval).Msg("sweeper started")

	<-ctx.Done()
	if err := sched.Shutdown(); err != nil {
		s.log.Warn().Err(err).Msg("scheduler shutdown")
	}
	return nil
}

// Tick runs one sweep.
func (s *Sweeper) Tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	n, err := s.engine.SweepExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("sweep expired bookings failed")
	} else if n > 0 {
		s.log.Info().Int("released", n).Msg("expired bookings released")
	}
	if s.tokens == nil {
		return
	}
	purged, err := s.tokens.PurgeExpired(ctx, s.engine.now())
	if err != nil {
		s.log.Warn().Err(err).Msg("purge refresh tokens failed")
	} else if purged > 0 {
		s.log.Debug().Int64("purged", purged).Msg("refresh tokens purged")
	}
}
