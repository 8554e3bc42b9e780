package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/sahidx/saroyar-sub004/internal/dto"
)

type batchSweeper interface {
	GenerateForAllBatches(ctx context.Context, year, month int) (*dto.BatchRunSummary, error)
}

// ResultScheduler regenerates the previous month for every batch on a cron schedule.
type ResultScheduler struct {
	sweeper batchSweeper
	cron    *cron.Cron
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// NewResultScheduler registers the sweep at spec, a standard five-field cron expression.
func NewResultScheduler(sweeper batchSweeper, spec string, timeout time.Duration, logger *zap.Logger) (*ResultScheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Minute
	}
	cronLogger := zapCronLogger{logger: logger.Sugar()}
	s := &ResultScheduler{
		sweeper: sweeper,
		cron:    cron.New(cron.WithLocation(time.UTC), cron.WithLogger(cronLogger), cron.WithChain(cron.SkipIfStillRunning(cronLogger))),
		timeout: timeout,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins the schedule in its own goroutine.
func (s *ResultScheduler) Start() {
	s.cron.Start()
	s.logger.Info("result scheduler started", zap.Int("entries", len(s.cron.Entries())))
}

// Stop halts the schedule and waits for a running sweep until ctx expires.
func (s *ResultScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("result scheduler stop timed out")
	}
}

func (s *ResultScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	year, month := PreviousMonth(s.now())
	if _, err := s.sweeper.GenerateForAllBatches(ctx, year, month); err != nil {
		s.logger.Error("scheduled result generation failed", zap.Int("year", year), zap.Int("month", month), zap.Error(err))
	}
}

// PreviousMonth returns the calendar month before now.
func PreviousMonth(now time.Time) (int, int) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	return prev.Year(), int(prev.Month())
}

type zapCronLogger struct {
	logger *zap.SugaredLogger
}

func (l zapCronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l zapCronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
