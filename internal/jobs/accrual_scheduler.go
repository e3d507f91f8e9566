package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/trade_credit_ledger/internal/apperrors"
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/trade_credit_ledger/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

// SchedulerActorID is recorded as the actor of scheduled accrual entries.
const SchedulerActorID = "system:accrual-scheduler"

// AccrualScheduler triggers one accrual run per frequency every day at the configured time.
// The due-date check inside the run decides whether an account is charged, so weekly and
// longer frequencies are also visited daily.
type AccrualScheduler struct {
	cron    *cron.Cron
	accrual portssvc.AccrualSvc
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewAccrualScheduler registers the jobs. runTime is "HH:MM" in loc.
func NewAccrualScheduler(accrual portssvc.AccrualSvc, runTime string, loc *time.Location, logger *slog.Logger) (*AccrualScheduler, error) {
	at, err := time.Parse("15:04", runTime)
	if err != nil {
		return nil, fmt.Errorf("invalid accrual run time %q: %w", runTime, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &AccrualScheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLogger{logger: logger}),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger: logger})),
		),
		accrual: accrual,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}

	spec := fmt.Sprintf("%d %d * * *", at.Minute(), at.Hour())
	for _, freq := range domain.Frequencies {
		if _, err := s.cron.AddFunc(spec, s.runFrequency(freq)); err != nil {
			cancel()
			return nil, fmt.Errorf("schedule %s accrual: %w", freq, err)
		}
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *AccrualScheduler) Start() {
	s.logger.Info("Accrual scheduler started", slog.Int("jobs", len(s.cron.Entries())))
	s.cron.Start()
}

// Stop cancels in-flight runs between accounts and waits for them to return or ctx to expire.
func (s *AccrualScheduler) Stop(ctx context.Context) {
	s.cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("Accrual scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("Accrual scheduler stop timed out", slog.String("error", ctx.Err().Error()))
	}
}

func (s *AccrualScheduler) runFrequency(freq domain.Frequency) func() {
	return func() {
		logger := s.logger.With(slog.String("frequency", freq.String()))
		summary, err := s.accrual.Run(s.ctx, domain.AccrualRequest{
			Frequency:        freq,
			RequireAutoApply: true,
			ActorID:          SchedulerActorID,
		})
		if err != nil {
			if errors.Is(err, apperrors.ErrAccrualInProgress) {
				logger.Info("Scheduled accrual skipped, another run holds the lock")
				return
			}
			logger.Error("Scheduled accrual failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("Scheduled accrual finished",
			slog.Int("processed", summary.ProcessedCount),
			slog.Int("skipped", summary.SkippedCount),
			slog.Int("failed", len(summary.Errors)),
			slog.String("total_interest", summary.TotalInterest.String()),
			slog.Bool("cancelled", summary.Cancelled),
		)
	}
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]interface{}{slog.String("error", err.Error())}, keysAndValues...)...)
}
