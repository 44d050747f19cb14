package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Queries is the hand-written query layer over the Supabase Postgres pool.
// All reads collapse provider result shapes into one variant: rows, no rows,
// or a wrapped error.
type Queries struct {
	pool *pgxpool.Pool
}

// New creates a Queries bound to the given pool.
func New(pool *pgxpool.Pool) *Queries {
	return &Queries{pool: pool}
}

// ListOptions narrows and orders a per-user log query. The zero value means
// "all rows for the user, ascending by date".
type ListOptions struct {
	// OnDate filters to rows whose date equals this calendar day.
	OnDate *time.Time
	// Since filters to rows whose date is on or after this calendar day.
	Since *time.Time
	// Desc orders by date descending (created_at secondary) when set.
	Desc bool
	// Limit caps the number of rows returned; 0 means no limit.
	Limit int32
}

// clauses renders the shared WHERE/ORDER/LIMIT tail. Argument numbering
// starts at $2 because $1 is always the user id.
func (o ListOptions) clauses() (string, []any) {
	var sb strings.Builder
	var args []any
	n := 2

	if o.OnDate != nil {
		fmt.Fprintf(&sb, " AND date = $%d", n)
		args = append(args, o.OnDate.Format("2006-01-02"))
		n++
	}
	if o.Since != nil {
		fmt.Fprintf(&sb, " AND date >= $%d", n)
		args = append(args, o.Since.Format("2006-01-02"))
		n++
	}
	if o.Desc {
		sb.WriteString(" ORDER BY date DESC, created_at DESC")
	} else {
		sb.WriteString(" ORDER BY date ASC, created_at ASC")
	}
	if o.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT $%d", n)
		args = append(args, o.Limit)
	}
	return sb.String(), args
}

/* =================================================================================
									PROFILES
=================================================================================*/

// GetProfile returns the user's profile, or (nil, nil) when the user has not
// onboarded yet.
func (q *Queries) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT user_id, primary_goal, fitness_level, dietary_preferences,
		        allergies_intolerances, activity_level, weekly_workout_goal,
		        daily_activity_goal, initial_weight_kg, created_at, updated_at
		 FROM profiles WHERE user_id = $1`,
		userID,
	)

	var p Profile
	err := row.Scan(&p.UserID, &p.PrimaryGoal, &p.FitnessLevel, &p.DietaryPreferences,
		&p.Allergies, &p.ActivityLevel, &p.WeeklyWorkoutGoal,
		&p.DailyActivityGoal, &p.InitialWeightKg, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database: get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile inserts or updates the user's profile row and returns the
// stored version.
func (q *Queries) UpsertProfile(ctx context.Context, p Profile) (*Profile, error) {
	row := q.pool.QueryRow(ctx,
		`INSERT INTO profiles (user_id, primary_goal, fitness_level, dietary_preferences,
		                       allergies_intolerances, activity_level, weekly_workout_goal,
		                       daily_activity_goal, initial_weight_kg, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())
		 ON CONFLICT (user_id) DO UPDATE SET
		   primary_goal = EXCLUDED.primary_goal,
		   fitness_level = EXCLUDED.fitness_level,
		   dietary_preferences = EXCLUDED.dietary_preferences,
		   allergies_intolerances = EXCLUDED.allergies_intolerances,
		   activity_level = EXCLUDED.activity_level,
		   weekly_workout_goal = EXCLUDED.weekly_workout_goal,
		   daily_activity_goal = EXCLUDED.daily_activity_goal,
		   initial_weight_kg = EXCLUDED.initial_weight_kg,
		   updated_at = now()
		 RETURNING user_id, primary_goal, fitness_level, dietary_preferences,
		           allergies_intolerances, activity_level, weekly_workout_goal,
		           daily_activity_goal, initial_weight_kg, created_at, updated_at`,
		p.UserID, p.PrimaryGoal, p.FitnessLevel, p.DietaryPreferences,
		p.Allergies, p.ActivityLevel, p.WeeklyWorkoutGoal,
		p.DailyActivityGoal, p.InitialWeightKg,
	)

	var out Profile
	err := row.Scan(&out.UserID, &out.PrimaryGoal, &out.FitnessLevel, &out.DietaryPreferences,
		&out.Allergies, &out.ActivityLevel, &out.WeeklyWorkoutGoal,
		&out.DailyActivityGoal, &out.InitialWeightKg, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("database: upsert profile: %w", err)
	}
	return &out, nil
}

/* =================================================================================
									WORKOUT LOGS
=================================================================================*/

// InsertWorkoutLog stores one workout entry and returns its id.
func (q *Queries) InsertWorkoutLog(ctx context.Context, w WorkoutLog) (int64, error) {
	var id int64
	err := q.pool.QueryRow(ctx,
		`INSERT INTO workout_logs (user_id, date, type, duration_minutes, calories_burned, notes)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		w.UserID, w.Date, w.Type, w.DurationMinutes, w.CaloriesBurned, w.Notes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("database: insert workout log: %w", err)
	}
	return id, nil
}

// ListWorkoutLogs returns the user's workout entries narrowed by opts.
func (q *Queries) ListWorkoutLogs(ctx context.Context, userID string, opts ListOptions) ([]WorkoutLog, error) {
	tail, extra := opts.clauses()
	rows, err := q.pool.Query(ctx,
		`SELECT id, user_id, date, type, duration_minutes, calories_burned, notes, created_at
		 FROM workout_logs WHERE user_id = $1`+tail,
		append([]any{userID}, extra...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("database: list workout logs: %w", err)
	}
	defer rows.Close()

	var out []WorkoutLog
	for rows.Next() {
		var w WorkoutLog
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.Type, &w.DurationMinutes,
			&w.CaloriesBurned, &w.Notes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("database: scan workout log: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate workout logs: %w", err)
	}
	return out, nil
}

// CountWorkouts returns the user's all-time workout count.
func (q *Queries) CountWorkouts(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := q.pool.QueryRow(ctx,
		`SELECT count(*) FROM workout_logs WHERE user_id = $1`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("database: count workouts: %w", err)
	}
	return n, nil
}

/* =================================================================================
									NUTRITION LOGS
=================================================================================*/

// InsertNutritionLog stores one nutrition entry and returns its id.
func (q *Queries) InsertNutritionLog(ctx context.Context, n NutritionLog) (int64, error) {
	var id int64
	err := q.pool.QueryRow(ctx,
		`INSERT INTO nutrition_logs (user_id, date, meal_type, food_item_description,
		                             calories, protein_g, carbs_g, fat_g)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		n.UserID, n.Date, n.MealType, n.FoodItemDescription,
		n.Calories, n.ProteinG, n.CarbsG, n.FatG,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("database: insert nutrition log: %w", err)
	}
	return id, nil
}

// ListNutritionLogs returns the user's nutrition entries narrowed by opts.
func (q *Queries) ListNutritionLogs(ctx context.Context, userID string, opts ListOptions) ([]NutritionLog, error) {
	tail, extra := opts.clauses()
	rows, err := q.pool.Query(ctx,
		`SELECT id, user_id, date, meal_type, food_item_description,
		        calories, protein_g, carbs_g, fat_g, created_at
		 FROM nutrition_logs WHERE user_id = $1`+tail,
		append([]any{userID}, extra...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("database: list nutrition logs: %w", err)
	}
	defer rows.Close()

	var out []NutritionLog
	for rows.Next() {
		var n NutritionLog
		if err := rows.Scan(&n.ID, &n.UserID, &n.Date, &n.MealType, &n.FoodItemDescription,
			&n.Calories, &n.ProteinG, &n.CarbsG, &n.FatG, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("database: scan nutrition log: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate nutrition logs: %w", err)
	}
	return out, nil
}

/* =================================================================================
									WEIGHT LOGS
=================================================================================*/

// InsertWeightLog stores one body-weight entry and returns its id.
func (q *Queries) InsertWeightLog(ctx context.Context, w WeightLog) (int64, error) {
	var id int64
	err := q.pool.QueryRow(ctx,
		`INSERT INTO weight_logs (user_id, date, weight_kg, notes)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		w.UserID, w.Date, w.WeightKg, w.Notes,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("database: insert weight log: %w", err)
	}
	return id, nil
}

// ListWeightLogs returns the user's weight entries narrowed by opts.
func (q *Queries) ListWeightLogs(ctx context.Context, userID string, opts ListOptions) ([]WeightLog, error) {
	tail, extra := opts.clauses()
	rows, err := q.pool.Query(ctx,
		`SELECT id, user_id, date, weight_kg, notes, created_at
		 FROM weight_logs WHERE user_id = $1`+tail,
		append([]any{userID}, extra...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("database: list weight logs: %w", err)
	}
	defer rows.Close()

	var out []WeightLog
	for rows.Next() {
		var w WeightLog
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.WeightKg, &w.Notes, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("database: scan weight log: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate weight logs: %w", err)
	}
	return out, nil
}

// LatestWeight returns the weight entry with the maximum date on or before
// the given day, or (nil, nil) when the user has never logged a weight.
func (q *Queries) LatestWeight(ctx context.Context, userID string, onOrBefore time.Time) (*WeightLog, error) {
	row := q.pool.QueryRow(ctx,
		`SELECT id, user_id, date, weight_kg, notes, created_at
		 FROM weight_logs WHERE user_id = $1 AND date <= $2
		 ORDER BY date DESC, created_at DESC LIMIT 1`,
		userID, onOrBefore.Format("2006-01-02"),
	)

	var w WeightLog
	err := row.Scan(&w.ID, &w.UserID, &w.Date, &w.WeightKg, &w.Notes, &w.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database: latest weight: %w", err)
	}
	return &w, nil
}

/* =================================================================================
									WATER LOGS
=================================================================================*/

// InsertWaterLog stores one water-intake entry and returns its id.
func (q *Queries) InsertWaterLog(ctx context.Context, w WaterLog) (int64, error) {
	var id int64
	err := q.pool.QueryRow(ctx,
		`INSERT INTO water_logs (user_id, date, amount_ml)
		 VALUES ($1, $2, $3) RETURNING id`,
		w.UserID, w.Date, w.AmountMl,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("database: insert water log: %w", err)
	}
	return id, nil
}

// ListWaterLogs returns the user's water entries narrowed by opts.
func (q *Queries) ListWaterLogs(ctx context.Context, userID string, opts ListOptions) ([]WaterLog, error) {
	tail, extra := opts.clauses()
	rows, err := q.pool.Query(ctx,
		`SELECT id, user_id, date, amount_ml, created_at
		 FROM water_logs WHERE user_id = $1`+tail,
		append([]any{userID}, extra...)...,
	)
	if err != nil {
		return nil, fmt.Errorf("database: list water logs: %w", err)
	}
	defer rows.Close()

	var out []WaterLog
	for rows.Next() {
		var w WaterLog
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.AmountMl, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("database: scan water log: %w", err)
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("database: iterate water logs: %w", err)
	}
	return out, nil
}
