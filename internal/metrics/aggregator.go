// Package metrics derives per-user numeric summaries from the time-series
// log tables: today's totals, weekly totals, streaks, and the windowed
// series that feed the insight prompts. Everything here is computed fresh
// per request and discarded; nothing is cached.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/rs/zerolog/log"
)

// ErrStoreUnavailable marks a failed lookup whose value is required, as
// opposed to the best-effort sub-queries that fall back to zero values.
var ErrStoreUnavailable = errors.New("metrics: store unavailable")

// streakCap bounds how many days the streak walk looks back. Streaks longer
// than this report as 30. Known limitation, kept on purpose.
const streakCap = 30

// Store is the read surface the aggregator needs. *database.Queries
// implements it.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*database.Profile, error)
	ListWorkoutLogs(ctx context.Context, userID string, opts database.ListOptions) ([]database.WorkoutLog, error)
	ListNutritionLogs(ctx context.Context, userID string, opts database.ListOptions) ([]database.NutritionLog, error)
	ListWeightLogs(ctx context.Context, userID string, opts database.ListOptions) ([]database.WeightLog, error)
	ListWaterLogs(ctx context.Context, userID string, opts database.ListOptions) ([]database.WaterLog, error)
	CountWorkouts(ctx context.Context, userID string) (int64, error)
	LatestWeight(ctx context.Context, userID string, onOrBefore time.Time) (*database.WeightLog, error)
}

// Aggregator computes derived summaries against a Store.
type Aggregator struct {
	store Store
}

// New creates an Aggregator over the given store.
func New(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// DerivedSummary is the dashboard snapshot for one user and one "today".
type DerivedSummary struct {
	CaloriesToday      float64  `json:"calories_today"`
	ProteinToday       float64  `json:"protein_today"`
	WorkoutsTodayCount int      `json:"workouts_today_count"`
	CurrentWeightKg    *float64 `json:"current_weight_kg"`
	WaterIntakeTodayMl float64  `json:"water_intake_today_ml"`
	NutritionLogsToday int      `json:"nutrition_logs_today"`
	WaterLogsToday     int      `json:"water_logs_today"`
}

// WeeklySummary covers the rolling window starting at week_start.
type WeeklySummary struct {
	WorkoutsThisWeek       int     `json:"workouts_this_week"`
	CaloriesBurnedThisWeek float64 `json:"calories_burned_this_week"`
}

// TodaySummary sums the user's records whose date equals today exactly.
// Missing numeric fields contribute 0. A failed sub-query is logged and
// contributes its zero value; the summary itself never fails.
func (a *Aggregator) TodaySummary(ctx context.Context, userID string, today time.Time) DerivedSummary {
	var s DerivedSummary

	nut, err := a.store.ListNutritionLogs(ctx, userID, database.ListOptions{OnDate: &today})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Nutrition summary query failed, defaulting to zero")
	}
	for _, n := range nut {
		s.CaloriesToday += n.Calories
		if n.ProteinG.Valid {
			s.ProteinToday += n.ProteinG.Float64
		}
	}
	s.NutritionLogsToday = len(nut)

	workouts, err := a.store.ListWorkoutLogs(ctx, userID, database.ListOptions{OnDate: &today})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Workout summary query failed, defaulting to zero")
	}
	s.WorkoutsTodayCount = len(workouts)

	latest, err := a.store.LatestWeight(ctx, userID, today)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Latest weight query failed, defaulting to null")
	}
	if latest != nil {
		w := latest.WeightKg
		s.CurrentWeightKg = &w
	}

	water, err := a.store.ListWaterLogs(ctx, userID, database.ListOptions{OnDate: &today})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Water summary query failed, defaulting to zero")
	}
	for _, w := range water {
		s.WaterIntakeTodayMl += w.AmountMl
	}
	s.WaterLogsToday = len(water)

	return s
}

// WeekSummary counts workouts dated on or after weekStart and sums their
// burned calories, nulls as 0.
func (a *Aggregator) WeekSummary(ctx context.Context, userID string, weekStart time.Time) WeeklySummary {
	var s WeeklySummary

	workouts, err := a.store.ListWorkoutLogs(ctx, userID, database.ListOptions{Since: &weekStart})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Weekly workout query failed, defaulting to zero")
		return s
	}
	s.WorkoutsThisWeek = len(workouts)
	for _, w := range workouts {
		if w.CaloriesBurned.Valid {
			s.CaloriesBurnedThisWeek += w.CaloriesBurned.Float64
		}
	}
	return s
}

// CurrentStreak counts consecutive calendar days ending at today with at
// least one workout each. The count stops at the first empty day and is
// capped at 30. One window query, counted in memory.
func (a *Aggregator) CurrentStreak(ctx context.Context, userID string, today time.Time) int {
	windowStart := day(today).AddDate(0, 0, -(streakCap - 1))
	workouts, err := a.store.ListWorkoutLogs(ctx, userID, database.ListOptions{Since: &windowStart})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Streak query failed, defaulting to zero")
		return 0
	}

	days := make(map[string]bool, len(workouts))
	for _, w := range workouts {
		days[w.Date.Time.Format("2006-01-02")] = true
	}

	streak := 0
	for d := day(today); streak < streakCap; d = d.AddDate(0, 0, -1) {
		if !days[d.Format("2006-01-02")] {
			break
		}
		streak++
	}
	return streak
}

// TotalWorkouts returns the user's all-time workout count, 0 on store
// failure.
func (a *Aggregator) TotalWorkouts(ctx context.Context, userID string) int64 {
	n, err := a.store.CountWorkouts(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Workout count query failed, defaulting to zero")
		return 0
	}
	return n
}

// Profile fetches the user's profile as a required value: a store failure
// propagates as ErrStoreUnavailable instead of degrading to a zero value.
// A missing profile is not an error; it returns (nil, nil).
func (a *Aggregator) Profile(ctx context.Context, userID string) (*database.Profile, error) {
	p, err := a.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return p, nil
}

// WindowedWorkouts returns workouts dated on or after since, ascending.
func (a *Aggregator) WindowedWorkouts(ctx context.Context, userID string, since time.Time) ([]database.WorkoutLog, error) {
	return a.store.ListWorkoutLogs(ctx, userID, database.ListOptions{Since: &since})
}

// WindowedNutrition returns nutrition entries dated on or after since, ascending.
func (a *Aggregator) WindowedNutrition(ctx context.Context, userID string, since time.Time) ([]database.NutritionLog, error) {
	return a.store.ListNutritionLogs(ctx, userID, database.ListOptions{Since: &since})
}

// WindowedWeights returns weight entries dated on or after since, ascending.
func (a *Aggregator) WindowedWeights(ctx context.Context, userID string, since time.Time) ([]database.WeightLog, error) {
	return a.store.ListWeightLogs(ctx, userID, database.ListOptions{Since: &since})
}

// day truncates t to its calendar day.
func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
