package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

// Profile mirrors one row of the profiles table. Exactly one row exists per
// onboarded user; a user without a row has not completed onboarding yet.
type Profile struct {
	UserID             string             `json:"user_id"`
	PrimaryGoal        string             `json:"primary_goal"`
	FitnessLevel       string             `json:"fitness_level"`
	DietaryPreferences pgtype.Text        `json:"dietary_preferences"`
	Allergies          []string           `json:"allergies_intolerances"`
	ActivityLevel      pgtype.Text        `json:"activity_level"`
	WeeklyWorkoutGoal  int32              `json:"weekly_workout_goal"`
	DailyActivityGoal  int32              `json:"daily_activity_goal"`
	InitialWeightKg    pgtype.Float8      `json:"initial_weight_kg"`
	CreatedAt          pgtype.Timestamptz `json:"created_at"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

// WorkoutLog is a single logged workout. Zero or more per user per day.
type WorkoutLog struct {
	ID              int64              `json:"id"`
	UserID          string             `json:"user_id"`
	Date            pgtype.Date        `json:"date"`
	Type            string             `json:"type"`
	DurationMinutes int32              `json:"duration_minutes"`
	CaloriesBurned  pgtype.Float8      `json:"calories_burned"`
	Notes           pgtype.Text        `json:"notes"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
}

// NutritionLog is a single logged meal or food item.
type NutritionLog struct {
	ID                  int64              `json:"id"`
	UserID              string             `json:"user_id"`
	Date                pgtype.Date        `json:"date"`
	MealType            string             `json:"meal_type"`
	FoodItemDescription string             `json:"food_item_description"`
	Calories            float64            `json:"calories"`
	ProteinG            pgtype.Float8      `json:"protein_g"`
	CarbsG              pgtype.Float8      `json:"carbs_g"`
	FatG                pgtype.Float8      `json:"fat_g"`
	CreatedAt           pgtype.Timestamptz `json:"created_at"`
}

// WeightLog is a single body-weight reading. The store does not enforce one
// per day; "latest" always means the row with the maximum date.
type WeightLog struct {
	ID        int64              `json:"id"`
	UserID    string             `json:"user_id"`
	Date      pgtype.Date        `json:"date"`
	WeightKg  float64            `json:"weight_kg"`
	Notes     pgtype.Text        `json:"notes"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

// WaterLog is a single water-intake entry in millilitres.
type WaterLog struct {
	ID        int64              `json:"id"`
	UserID    string             `json:"user_id"`
	Date      pgtype.Date        `json:"date"`
	AmountMl  float64            `json:"amount_ml"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}
