package services

import (
	"time"

	"github.com/jviitor13/rodocheck/pkg/logger"
	"github.com/robfig/cron/v3"
)

// RetentionService prunes old AI usage rows on a daily schedule.
type RetentionService struct {
	usage         *AIUsageService
	retentionDays int
	scheduler     *cron.Cron
}

func NewRetentionService(usage *AIUsageService, retentionDays int) *RetentionService {
	return &RetentionService{usage: usage, retentionDays: retentionDays}
}

// StartScheduler runs the cleanup every day at 03:00. Retention of zero or
// less disables pruning entirely.
func (s *RetentionService) StartScheduler() {
	if s.retentionDays <= 0 {
		logger.Info().Msg("usage log retention disabled")
		return
	}
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc("0 3 * * *", s.RunOnce); err != nil {
		logger.Error().Err(err).Msg("failed to schedule usage log cleanup")
		return
	}
	s.scheduler.Start()
	logger.Info().Int("retention_days", s.retentionDays).Msg("usage log retention scheduler started")
}

func (s *RetentionService) StopScheduler() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// RunOnce deletes usage rows older than the retention window.
func (s *RetentionService) RunOnce() {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	deleted, err := s.usage.CleanupBefore(cutoff)
	if err != nil {
		logger.Error().Err(err).Msg("usage log cleanup failed")
		return
	}
	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Time("cutoff", cutoff).Msg("pruned old usage logs")
	}
}
