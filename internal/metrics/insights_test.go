package metrics

import (
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Paburo99/fitmind-backend/internal/database"
)

func TestClassifyWeightTrend(t *testing.T) {
	tests := []struct {
		delta float64
		want  string
	}{
		{1.5, TrendIncreasing},
		{-2.0, TrendDecreasing},
		{0.3, TrendStable},
		{-0.9, TrendStable},
		{1.0, TrendStable}, // threshold is exclusive
		{-1.0, TrendStable},
	}

	for _, tt := range tests {
		if got := ClassifyWeightTrend(tt.delta); got != tt.want {
			t.Errorf("ClassifyWeightTrend(%v) = %q, want %q", tt.delta, got, tt.want)
		}
	}
}

func TestComputeInsightStats(t *testing.T) {
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	d := func(off int) pgtype.Date {
		return pgtype.Date{Time: base.AddDate(0, 0, off), Valid: true}
	}

	weights := []database.WeightLog{
		{Date: d(0), WeightKg: 84.0},
		{Date: d(15), WeightKg: 82.8},
		{Date: d(29), WeightKg: 82.5},
	}
	nutrition := []database.NutritionLog{
		{Date: d(1), Calories: 600},
		{Date: d(1), Calories: 400},
		{Date: d(2), Calories: 500},
	}
	workouts := []database.WorkoutLog{
		{Date: d(1), Type: "running", DurationMinutes: 30},
		{Date: d(3), Type: "strength", DurationMinutes: 45},
		{Date: d(3), Type: "running", DurationMinutes: 15},
	}

	stats := ComputeInsightStats(weights, nutrition, workouts, 30)

	if got, want := stats.WorkoutDays, 2; got != want {
		t.Errorf("WorkoutDays = %d, want %d", got, want)
	}
	if got, want := stats.TotalExerciseMinutes, 90; got != want {
		t.Errorf("TotalExerciseMinutes = %d, want %d", got, want)
	}
	if want := []string{"running", "strength"}; !reflect.DeepEqual(stats.WorkoutTypes, want) {
		t.Errorf("WorkoutTypes = %v, want %v", stats.WorkoutTypes, want)
	}
	if got, want := stats.NutritionDays, 2; got != want {
		t.Errorf("NutritionDays = %d, want %d", got, want)
	}
	if got, want := stats.AvgDailyCalories, 750.0; got != want {
		t.Errorf("AvgDailyCalories = %v, want %v", got, want)
	}
	// Days 0,1,2,3,15,29 have some log.
	if got, want := stats.TrackingConsistencyPct, 20.0; got != want {
		t.Errorf("TrackingConsistencyPct = %v, want %v", got, want)
	}
	if got, want := stats.WeightDeltaKg, -1.5; got != want {
		t.Errorf("WeightDeltaKg = %v, want %v", got, want)
	}
	if got, want := stats.WeightTrend, TrendDecreasing; got != want {
		t.Errorf("WeightTrend = %q, want %q", got, want)
	}
}

func TestComputeInsightStatsEmptyWindow(t *testing.T) {
	stats := ComputeInsightStats(nil, nil, nil, 30)

	if stats.TrackingConsistencyPct != 0 || stats.WorkoutDays != 0 || stats.NutritionDays != 0 {
		t.Errorf("empty window should produce zeros, got %+v", stats)
	}
	if got, want := stats.WeightTrend, TrendStable; got != want {
		t.Errorf("WeightTrend = %q, want %q", got, want)
	}
	if stats.AvgDailyCalories != 0 {
		t.Errorf("AvgDailyCalories = %v, want 0", stats.AvgDailyCalories)
	}
}

func TestComputeInsightStatsSingleWeight(t *testing.T) {
	weights := []database.WeightLog{
		{Date: pgtype.Date{Time: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), Valid: true}, WeightKg: 80},
	}
	stats := ComputeInsightStats(weights, nil, nil, 30)
	if got, want := stats.WeightTrend, TrendStable; got != want {
		t.Errorf("WeightTrend with one reading = %q, want %q", got, want)
	}
	if stats.WeightDeltaKg != 0 {
		t.Errorf("WeightDeltaKg = %v, want 0", stats.WeightDeltaKg)
	}
}
