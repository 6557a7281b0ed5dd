// Package achievements evaluates configured library milestones against the current statistics.
package achievements

import (
	"context"
	"errors"
	"fmt"

	"github.com/aimd54/gametracker/internal/config"
	prommetrics "github.com/aimd54/gametracker/internal/metrics"
	"github.com/aimd54/gametracker/internal/stats"
	"github.com/aimd54/gametracker/pkg/logger"
)

// ErrAchievementNotFound is returned when no achievement has the requested name.
var ErrAchievementNotFound = errors.New("achievement not found")

// StatsProvider interface for library statistics.
type StatsProvider interface {
	LibraryStats(ctx context.Context) (stats.Library, error)
}

// Achievement is the evaluated state of one configured achievement.
type Achievement struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Metric      string   `json:"metric"`
	Operator    string   `json:"operator"`
	Threshold   float64  `json:"threshold"`
	Value       *float64 `json:"value"`
	Unlocked    bool     `json:"unlocked"`
}

// Service handles achievement evaluation.
type Service struct {
	provider StatsProvider
	defs     []config.AchievementConfig
	log      *logger.Logger
}

// NewService creates a new achievement service.
func NewService(provider StatsProvider, defs []config.AchievementConfig, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		defs:     defs,
		log:      log.Component("achievements"),
	}
}

// Evaluate computes the current library statistics and checks every achievement against them.
func (s *Service) Evaluate(ctx context.Context) ([]Achievement, error) {
	lib, err := s.provider.LibraryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute library stats: %w", err)
	}
	return s.EvaluateStats(lib), nil
}

// Get evaluates the achievement called name.
func (s *Service) Get(ctx context.Context, name string) (*Achievement, error) {
	evaluated, err := s.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	for i := range evaluated {
		if evaluated[i].Name == name {
			return &evaluated[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrAchievementNotFound, name)
}

// EvaluateStats checks every achievement against lib.
func (s *Service) EvaluateStats(lib stats.Library) []Achievement {
	values := MetricValues(lib)

	out := make([]Achievement, 0, len(s.defs))
	for _, def := range s.defs {
		a := Achievement{
			Name:        def.Name,
			Description: def.Description,
			Icon:        def.Icon,
			Metric:      def.Criteria.Metric,
			Operator:    def.Criteria.Operator,
			Threshold:   def.Criteria.Value,
		}

		if v, ok := values[def.Criteria.Metric]; ok {
			a.Value = &v
			unlocked, err := evaluateMetricCriteria(def.Criteria.Operator, def.Criteria.Value, v)
			if err != nil {
				s.log.Error().
					Err(err).
					Str("achievement", def.Name).
					Msg("Failed to evaluate achievement")
			}
			a.Unlocked = unlocked
		}

		prommetrics.SetAchievementUnlocked(a.Name, a.Unlocked)
		out = append(out, a)
	}
	return out
}

// Unlocked returns the names of the unlocked achievements in evaluated.
func Unlocked(evaluated []Achievement) []string {
	names := make([]string, 0, len(evaluated))
	for _, a := range evaluated {
		if a.Unlocked {
			names = append(names, a.Name)
		}
	}
	return names
}
