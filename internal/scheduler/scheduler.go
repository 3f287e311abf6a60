package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/omarshaarawi/rosterbot/internal/config"
)

// jobTimeout bounds a single scheduled report, optimization included.
const jobTimeout = 10 * time.Minute

// Reporter produces the reports pushed on a schedule.
type Reporter interface {
	Optimize(ctx context.Context) (string, error)
	ShowScore(ctx context.Context) (string, error)
}

type Scheduler struct {
	s           gocron.Scheduler
	reporter    Reporter
	cfg         config.Schedule
	sendMessage func(string) error
	logger      *slog.Logger
}

func NewScheduler(reporter Reporter, cfg config.Schedule, sendMessage func(string) error, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	location, err := time.LoadLocation(cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("failed to load location %q: %w", cfg.Location, err)
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:           s,
		reporter:    reporter,
		cfg:         cfg,
		sendMessage: sendMessage,
		logger:      logger,
	}, nil
}

func (s *Scheduler) Start() error {
	// Weekly lineup optimization, Monday morning by default
	_, err := s.s.NewJob(
		gocron.CronJob(s.cfg.OptimizeCron, false),
		gocron.NewTask(s.runReport, "optimize", s.reporter.Optimize),
		gocron.WithName("optimize"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to create optimize job: %w", err)
	}

	// Daily category score
	_, err = s.s.NewJob(
		gocron.CronJob(s.cfg.ScoreCron, false),
		gocron.NewTask(s.runReport, "score", s.reporter.ShowScore),
		gocron.WithName("score"),
	)
	if err != nil {
		return fmt.Errorf("failed to create score job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) runReport(name string, report func(context.Context) (string, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	text, err := report(ctx)
	if err != nil {
		s.logger.Error("Scheduled report failed", "job", name, "error", err)
		return
	}
	if err := s.sendMessage(text); err != nil {
		s.logger.Error("Failed to send scheduled report", "job", name, "error", err)
		return
	}
	s.logger.Info("Sent scheduled report", "job", name, "took", time.Since(start))
}
