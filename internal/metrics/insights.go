package metrics

import (
	"sort"

	"github.com/Paburo99/fitmind-backend/internal/database"
)

// Weight trend classifications. The trend is "stable" unless the window's
// last-minus-first delta moves more than 1 kg either way.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

const trendThresholdKg = 1.0

// InsightStats is the derived-metrics block rendered into the insight
// prompt, computed over one trailing window of the three series.
type InsightStats struct {
	WindowDays             int
	TrackingConsistencyPct float64  // days with any log / window days
	WorkoutDays            int      // distinct days with at least one workout
	WorkoutFrequencyPct    float64  // workout days / window days
	TotalExerciseMinutes   int
	WorkoutTypes           []string // distinct, sorted
	NutritionDays          int      // distinct days with at least one nutrition log
	NutritionDaysPct       float64
	AvgDailyCalories       float64 // meaningful only when NutritionDays > 0
	WeightTrend            string
	WeightDeltaKg          float64 // signed last-minus-first over the window
}

// ComputeInsightStats derives the metrics block from the three windowed
// series. Series are expected ascending by date, as WindowedWorkouts and
// friends return them.
func ComputeInsightStats(weights []database.WeightLog, nutrition []database.NutritionLog, workouts []database.WorkoutLog, windowDays int) InsightStats {
	if windowDays <= 0 {
		windowDays = 30
	}
	stats := InsightStats{WindowDays: windowDays, WeightTrend: TrendStable}

	anyDays := make(map[string]bool)
	workoutDays := make(map[string]bool)
	nutritionDays := make(map[string]bool)
	types := make(map[string]bool)

	for _, w := range workouts {
		d := w.Date.Time.Format("2006-01-02")
		anyDays[d] = true
		workoutDays[d] = true
		stats.TotalExerciseMinutes += int(w.DurationMinutes)
		if w.Type != "" {
			types[w.Type] = true
		}
	}

	var totalCalories float64
	for _, n := range nutrition {
		d := n.Date.Time.Format("2006-01-02")
		anyDays[d] = true
		nutritionDays[d] = true
		totalCalories += n.Calories
	}

	for _, w := range weights {
		anyDays[w.Date.Time.Format("2006-01-02")] = true
	}

	stats.WorkoutDays = len(workoutDays)
	stats.NutritionDays = len(nutritionDays)
	stats.TrackingConsistencyPct = pct(len(anyDays), windowDays)
	stats.WorkoutFrequencyPct = pct(len(workoutDays), windowDays)
	stats.NutritionDaysPct = pct(len(nutritionDays), windowDays)

	if stats.NutritionDays > 0 {
		stats.AvgDailyCalories = totalCalories / float64(stats.NutritionDays)
	}

	for t := range types {
		stats.WorkoutTypes = append(stats.WorkoutTypes, t)
	}
	sort.Strings(stats.WorkoutTypes)

	if len(weights) >= 2 {
		stats.WeightDeltaKg = weights[len(weights)-1].WeightKg - weights[0].WeightKg
		stats.WeightTrend = ClassifyWeightTrend(stats.WeightDeltaKg)
	}

	return stats
}

// ClassifyWeightTrend maps a signed kg delta to a trend label.
func ClassifyWeightTrend(deltaKg float64) string {
	switch {
	case deltaKg > trendThresholdKg:
		return TrendIncreasing
	case deltaKg < -trendThresholdKg:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

func pct(n, of int) float64 {
	if of == 0 {
		return 0
	}
	return float64(n) / float64(of) * 100
}
