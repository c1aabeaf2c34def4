package autoconfirm

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	appEscrow "github.com/connectone/tradecore/internal/application/escrow"
	domain "github.com/connectone/tradecore/internal/domain/escrow"
)

const sweepBatchSize = 100

// Sweeper finalizes shipped trades whose confirmation window lapsed
// without the buyer confirming. Runs on a cron schedule.
type Sweeper struct {
	repo      domain.Repository
	escrowSvc *appEscrow.Service
	cron      *cron.Cron
	logger    zerolog.Logger
}

// NewSweeper creates an auto-confirm sweeper.
func NewSweeper(repo domain.Repository, escrowSvc *appEscrow.Service, logger zerolog.Logger) *Sweeper {
	return &Sweeper{
		repo:      repo,
		escrowSvc: escrowSvc,
		cron:      cron.New(),
		logger:    logger.With().Str("service", "autoconfirm").Logger(),
	}
}

// Start schedules the sweep with the given cron spec and begins running.
func (s *Sweeper) Start(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.Sweep(ctx); err != nil {
			s.logger.Error().Err(err).Msg("auto-confirm sweep failed")
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("schedule", spec).Msg("auto-confirm sweeper started")
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep finds overdue shipped trades and confirms them as the system.
// Trades that moved between listing and confirmation are skipped; the
// sweep is safe to run concurrently with user traffic.
func (s *Sweeper) Sweep(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-domain.AutoConfirmWindow)
	trades, err := s.repo.ListAutoConfirmable(ctx, cutoff, sweepBatchSize)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		return nil
	}

	confirmed := 0
	for _, t := range trades {
		if _, err := s.escrowSvc.AutoConfirm(ctx, t.TradeID); err != nil {
			if errors.Is(err, domain.ErrStatusConflict) {
				continue
			}
			s.logger.Error().Err(err).Str("trade_id", t.TradeID.String()).Msg("auto-confirm failed")
			continue
		}
		confirmed++
	}

	s.logger.Info().
		Int("candidates", len(trades)).
		Int("confirmed", confirmed).
		Msg("auto-confirm sweep completed")
	return nil
}
