package user

import (
	"net/http"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/Paburo99/fitmind-backend/internal/utility"
)

// Goal values applied when the payload omits them.
const (
	defaultWeeklyWorkoutGoal int32 = 5
	defaultDailyActivityGoal int32 = 3
)

// ProfileRequest carries the onboarding/profile payload. Optional fields
// are pointers so absent keys stay NULL.
type ProfileRequest struct {
	PrimaryGoal        string   `json:"primary_goal"`
	FitnessLevel       string   `json:"fitness_level"`
	DietaryPreferences *string  `json:"dietary_preferences"`
	Allergies          []string `json:"allergies_intolerances"`
	ActivityLevel      *string  `json:"activity_level"`
	WeeklyWorkoutGoal  *int32   `json:"weekly_workout_goal"`
	DailyActivityGoal  *int32   `json:"daily_activity_goal"`
	InitialWeightKg    *float64 `json:"initial_weight_kg"`
}

// GetProfileHandler returns the user's profile, or 404 before onboarding.
func (h *Handler) GetProfileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	profile, err := h.store.GetProfile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to retrieve profile")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve profile"})
	}
	if profile == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Profile not found. Please complete onboarding first."})
	}

	return c.JSON(http.StatusOK, profile)
}

// UpsertProfileHandler creates or replaces the user's profile. POST and
// PUT share this handler; both converge on the same upsert.
func (h *Handler) UpsertProfileHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req ProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	if req.PrimaryGoal == "" || req.FitnessLevel == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "primary_goal and fitness_level are required"})
	}

	p := database.Profile{
		UserID:       userID,
		PrimaryGoal:  req.PrimaryGoal,
		FitnessLevel: req.FitnessLevel,
		Allergies:    req.Allergies,
	}
	if req.DietaryPreferences != nil {
		p.DietaryPreferences = pgtype.Text{String: *req.DietaryPreferences, Valid: true}
	}
	if req.ActivityLevel != nil {
		p.ActivityLevel = pgtype.Text{String: *req.ActivityLevel, Valid: true}
	}
	p.WeeklyWorkoutGoal = defaultWeeklyWorkoutGoal
	if req.WeeklyWorkoutGoal != nil {
		p.WeeklyWorkoutGoal = *req.WeeklyWorkoutGoal
	}
	p.DailyActivityGoal = defaultDailyActivityGoal
	if req.DailyActivityGoal != nil {
		p.DailyActivityGoal = *req.DailyActivityGoal
	}
	if req.InitialWeightKg != nil {
		p.InitialWeightKg = pgtype.Float8{Float64: *req.InitialWeightKg, Valid: true}
	}

	stored, err := h.store.UpsertProfile(ctx, p)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to upsert profile")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to save profile"})
	}

	return c.JSON(http.StatusOK, stored)
}
