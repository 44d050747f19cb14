package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Paburo99/fitmind-backend/internal/database"
)

// fakeStore serves canned rows and honors the OnDate/Since narrowing the
// aggregator relies on.
type fakeStore struct {
	profile   *database.Profile
	workouts  []database.WorkoutLog
	nutrition []database.NutritionLog
	weights   []database.WeightLog
	water     []database.WaterLog
	err       error
}

func (f *fakeStore) GetProfile(_ context.Context, _ string) (*database.Profile, error) {
	return f.profile, f.err
}

func (f *fakeStore) ListWorkoutLogs(_ context.Context, _ string, opts database.ListOptions) ([]database.WorkoutLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []database.WorkoutLog
	for _, w := range f.workouts {
		if matches(w.Date.Time, opts) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) ListNutritionLogs(_ context.Context, _ string, opts database.ListOptions) ([]database.NutritionLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []database.NutritionLog
	for _, n := range f.nutrition {
		if matches(n.Date.Time, opts) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeStore) ListWeightLogs(_ context.Context, _ string, opts database.ListOptions) ([]database.WeightLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []database.WeightLog
	for _, w := range f.weights {
		if matches(w.Date.Time, opts) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) ListWaterLogs(_ context.Context, _ string, opts database.ListOptions) ([]database.WaterLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []database.WaterLog
	for _, w := range f.water {
		if matches(w.Date.Time, opts) {
			out = append(out, w)
		}
	}
	return out, nil
}

func (f *fakeStore) CountWorkouts(_ context.Context, _ string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.workouts)), nil
}

func (f *fakeStore) LatestWeight(_ context.Context, _ string, onOrBefore time.Time) (*database.WeightLog, error) {
	if f.err != nil {
		return nil, f.err
	}
	var latest *database.WeightLog
	for i := range f.weights {
		w := f.weights[i]
		if w.Date.Time.After(onOrBefore) {
			continue
		}
		if latest == nil || w.Date.Time.After(latest.Date.Time) {
			latest = &w
		}
	}
	return latest, nil
}

func matches(t time.Time, opts database.ListOptions) bool {
	if opts.OnDate != nil && t.Format("2006-01-02") != opts.OnDate.Format("2006-01-02") {
		return false
	}
	if opts.Since != nil && t.Before(*opts.Since) {
		return false
	}
	return true
}

func onDay(t time.Time) pgtype.Date {
	return pgtype.Date{Time: t, Valid: true}
}

var today = time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)

func TestTodaySummarySumsAndNullHandling(t *testing.T) {
	store := &fakeStore{
		nutrition: []database.NutritionLog{
			{Date: onDay(today), Calories: 500, ProteinG: pgtype.Float8{Float64: 30, Valid: true}},
			{Date: onDay(today), Calories: 250}, // protein NULL
			{Date: onDay(today.AddDate(0, 0, -1)), Calories: 999},
		},
		workouts: []database.WorkoutLog{
			{Date: onDay(today), Type: "running", DurationMinutes: 30},
		},
		weights: []database.WeightLog{
			{Date: onDay(today.AddDate(0, 0, -3)), WeightKg: 81.0},
			{Date: onDay(today.AddDate(0, 0, -10)), WeightKg: 82.5},
		},
		water: []database.WaterLog{
			{Date: onDay(today), AmountMl: 500},
			{Date: onDay(today), AmountMl: 250},
		},
	}

	s := New(store).TodaySummary(context.Background(), "u1", today)

	if got, want := s.CaloriesToday, 750.0; got != want {
		t.Errorf("CaloriesToday = %v, want %v", got, want)
	}
	if got, want := s.ProteinToday, 30.0; got != want {
		t.Errorf("ProteinToday = %v, want %v", got, want)
	}
	if got, want := s.WorkoutsTodayCount, 1; got != want {
		t.Errorf("WorkoutsTodayCount = %v, want %v", got, want)
	}
	if s.CurrentWeightKg == nil || *s.CurrentWeightKg != 81.0 {
		t.Errorf("CurrentWeightKg = %v, want 81.0", s.CurrentWeightKg)
	}
	if got, want := s.WaterIntakeTodayMl, 750.0; got != want {
		t.Errorf("WaterIntakeTodayMl = %v, want %v", got, want)
	}
	if got, want := s.NutritionLogsToday, 2; got != want {
		t.Errorf("NutritionLogsToday = %v, want %v", got, want)
	}
}

func TestTodaySummaryNeverLoggedWeight(t *testing.T) {
	s := New(&fakeStore{}).TodaySummary(context.Background(), "u1", today)
	if s.CurrentWeightKg != nil {
		t.Errorf("CurrentWeightKg = %v, want nil", *s.CurrentWeightKg)
	}
}

func TestTodaySummaryStoreFailureDegradesToZero(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	s := New(store).TodaySummary(context.Background(), "u1", today)
	if s.CaloriesToday != 0 || s.WorkoutsTodayCount != 0 || s.CurrentWeightKg != nil {
		t.Errorf("summary should be all zeros on store failure, got %+v", s)
	}
}

func TestCurrentStreak(t *testing.T) {
	workoutsOn := func(offsets ...int) []database.WorkoutLog {
		var out []database.WorkoutLog
		for _, off := range offsets {
			out = append(out, database.WorkoutLog{Date: onDay(today.AddDate(0, 0, -off)), Type: "gym", DurationMinutes: 45})
		}
		return out
	}

	fullWindow := make([]int, 40)
	for i := range fullWindow {
		fullWindow[i] = i
	}

	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{"no workouts", nil, 0},
		{"today only", []int{0}, 1},
		{"three consecutive days", []int{0, 1, 2}, 3},
		{"gap stops the count", []int{0, 1, 3, 4}, 2},
		{"no workout today", []int{1, 2, 3}, 0},
		{"two on one day count once", []int{0, 0, 1}, 2},
		{"capped at thirty", fullWindow, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := New(&fakeStore{workouts: workoutsOn(tt.offsets...)})
			if got := agg.CurrentStreak(context.Background(), "u1", today); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeekSummary(t *testing.T) {
	weekStart := today.AddDate(0, 0, -2)
	store := &fakeStore{
		workouts: []database.WorkoutLog{
			{Date: onDay(today), DurationMinutes: 30, CaloriesBurned: pgtype.Float8{Float64: 250, Valid: true}},
			{Date: onDay(today.AddDate(0, 0, -1)), DurationMinutes: 20}, // calories NULL
			{Date: onDay(today.AddDate(0, 0, -5)), DurationMinutes: 60, CaloriesBurned: pgtype.Float8{Float64: 999, Valid: true}},
		},
	}

	s := New(store).WeekSummary(context.Background(), "u1", weekStart)
	if got, want := s.WorkoutsThisWeek, 2; got != want {
		t.Errorf("WorkoutsThisWeek = %d, want %d", got, want)
	}
	if got, want := s.CaloriesBurnedThisWeek, 250.0; got != want {
		t.Errorf("CaloriesBurnedThisWeek = %v, want %v", got, want)
	}
}

func TestProfileStoreFailureIsNotMasked(t *testing.T) {
	agg := New(&fakeStore{err: errors.New("connection refused")})
	_, err := agg.Profile(context.Background(), "u1")
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("Profile() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestProfileMissingIsNotAnError(t *testing.T) {
	agg := New(&fakeStore{})
	p, err := agg.Profile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if p != nil {
		t.Errorf("Profile() = %+v, want nil", p)
	}
}
