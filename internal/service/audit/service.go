// Package audit runs the scheduled library consistency audit.
package audit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/aimd54/gametracker/internal/config"
	"github.com/aimd54/gametracker/internal/mattermost"
	prommetrics "github.com/aimd54/gametracker/internal/metrics"
	"github.com/aimd54/gametracker/internal/models"
	"github.com/aimd54/gametracker/internal/service/achievements"
	"github.com/aimd54/gametracker/internal/stats"
	"github.com/aimd54/gametracker/pkg/logger"
)

// ErrAlreadyRunning is returned when an audit is requested while another one is in progress.
var ErrAlreadyRunning = errors.New("audit already running")

// LibrarySnapshotter interface for reading the whole library.
type LibrarySnapshotter interface {
	Snapshot(ctx context.Context) ([]models.Game, []models.Review, error)
}

// AchievementEvaluator interface for achievement evaluation.
type AchievementEvaluator interface {
	EvaluateStats(lib stats.Library) []achievements.Achievement
}

// Notifier interface for delivering audit summaries.
type Notifier interface {
	SendAuditSummary(ctx context.Context, summary mattermost.AuditSummary) error
	SendSimpleMessage(ctx context.Context, text string) error
}

// OrphanedReview identifies a review whose game no longer exists.
type OrphanedReview struct {
	ReviewID string `json:"review_id"`
	GameID   string `json:"game_id"`
}

// Report is the result of one audit run.
type Report struct {
	RanAt           time.Time        `json:"ran_at"`
	Stats           stats.Library    `json:"stats"`
	TotalReviews    int              `json:"total_reviews"`
	OrphanedReviews []OrphanedReview `json:"orphaned_reviews"`
	Unlocked        []string         `json:"unlocked_achievements"`
	Notified        bool             `json:"notified"`
}

// Service handles the audit schedule and execution.
type Service struct {
	cfg          config.AuditConfig
	library      LibrarySnapshotter
	achievements AchievementEvaluator
	notifier     Notifier
	log          *logger.Logger
	cron         *cron.Cron
	running      sync.Mutex
	now          func() time.Time
}

// NewService creates a new audit service. achievements and notifier may be nil.
func NewService(
	cfg config.AuditConfig,
	library LibrarySnapshotter,
	achievements AchievementEvaluator,
	notifier Notifier,
	log *logger.Logger,
) *Service {
	return &Service{
		cfg:          cfg,
		library:      library,
		achievements: achievements,
		notifier:     notifier,
		log:          log.Component("audit"),
		now:          time.Now,
	}
}

// Start initializes and starts the cron scheduler.
func (s *Service) Start() error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("Audit is disabled in configuration")
		return nil
	}

	location, err := s.cfg.GetLocation()
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", s.cfg.Timezone, err)
	}

	s.cron = cron.New(cron.WithLocation(location))

	_, err = s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.RunOnce(context.Background()); err != nil && !errors.Is(err, ErrAlreadyRunning) {
			s.log.Error().Err(err).Msg("Scheduled audit failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to register audit job: %w", err)
	}

	s.cron.Start()

	entries := s.cron.Entries()
	nextRun := ""
	if len(entries) > 0 {
		nextRun = entries[0].Next.Format(time.RFC3339)
	}

	s.log.Info().
		Str("schedule", s.cfg.Schedule).
		Str("timezone", s.cfg.Timezone).
		Str("next_run", nextRun).
		Msg("Audit scheduler started successfully")

	return nil
}

// Stop gracefully shuts down the scheduler, waiting for a running audit to finish.
func (s *Service) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
		s.log.Info().Msg("Audit scheduler stopped")
	}
}

// RunOnce audits the library immediately.
func (s *Service) RunOnce(ctx context.Context) (*Report, error) {
	if !s.running.TryLock() {
		return nil, ErrAlreadyRunning
	}
	defer s.running.Unlock()

	start := time.Now()
	defer func() {
		prommetrics.ObserveAuditDuration(time.Since(start).Seconds())
		prommetrics.SetAuditLastRun()
	}()

	s.log.Info().Msg("Running library audit")

	games, reviews, err := s.library.Snapshot(ctx)
	if err != nil {
		prommetrics.RecordAuditRun("error")
		if s.notifier != nil {
			if nerr := s.notifier.SendSimpleMessage(ctx, "Library audit failed: "+err.Error()); nerr != nil {
				s.log.Error().Err(nerr).Msg("Failed to send audit failure notice")
			}
		}
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	report := &Report{
		RanAt:           s.now(),
		Stats:           stats.LibraryStats(games, reviews),
		TotalReviews:    len(reviews),
		OrphanedReviews: make([]OrphanedReview, 0),
		Unlocked:        make([]string, 0),
	}

	byGame := make(map[string]int)
	for _, r := range stats.Orphans(games, reviews) {
		s.log.Warn().
			Str("review_id", r.ID).
			Str("game_id", r.GameID).
			Msg("Review references a missing game")
		report.OrphanedReviews = append(report.OrphanedReviews, OrphanedReview{ReviewID: r.ID, GameID: r.GameID})
		byGame[r.GameID]++
	}

	prommetrics.SetLibraryGauges(report.Stats.TotalGames, float64(report.Stats.CompletionPercent), len(report.OrphanedReviews))

	if s.achievements != nil {
		report.Unlocked = achievements.Unlocked(s.achievements.EvaluateStats(report.Stats))
	}

	if s.notifier != nil {
		err := s.notifier.SendAuditSummary(ctx, mattermost.AuditSummary{
			RanAt:             report.RanAt,
			TotalGames:        report.Stats.TotalGames,
			CompletedGames:    report.Stats.CompletedGames,
			CompletionPercent: float64(report.Stats.CompletionPercent),
			TotalReviews:      report.TotalReviews,
			AverageRating:     report.Stats.AverageRating.Value,
			OrphanedReviews:   byGame,
			Unlocked:          report.Unlocked,
		})
		if err != nil {
			// The audit itself succeeded; a failed notification is only logged.
			s.log.Error().Err(err).Msg("Failed to send audit summary")
		} else {
			report.Notified = true
		}
	}

	prommetrics.RecordAuditRun("success")

	s.log.Info().
		Int("games", report.Stats.TotalGames).
		Int("reviews", report.TotalReviews).
		Int("orphaned_reviews", len(report.OrphanedReviews)).
		Dur("duration", time.Since(start)).
		Msg("Library audit complete")

	return report, nil
}
