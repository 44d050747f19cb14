package user

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/Paburo99/fitmind-backend/internal/geminiservice"
	"github.com/Paburo99/fitmind-backend/internal/utility"
)

// recommendationHistoryLimit caps how many recent records feed a
// recommendation prompt.
const recommendationHistoryLimit = 5

// RecommendWorkoutHandler generates one personalized workout suggestion.
func (h *Handler) RecommendWorkoutHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	profile, err := h.agg.Profile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Profile lookup failed for workout recommendation")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Data store temporarily unavailable"})
	}
	if profile == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Profile not found. Please complete onboarding first."})
	}

	recent, err := h.store.ListWorkoutLogs(ctx, userID, database.ListOptions{Desc: true, Limit: recommendationHistoryLimit})
	if err != nil {
		// History is context, not a requirement.
		log.Warn().Err(err).Str("user_id", userID).Msg("Workout history unavailable, recommending without it")
		recent = nil
	}

	prompt := geminiservice.BuildWorkoutPrompt(profile.FitnessLevel, profile.PrimaryGoal, recent)
	text, genErr := h.generator.Generate(ctx, prompt)
	result := geminiservice.Classify(text, genErr)
	if result.Kind != geminiservice.Ok {
		log.Warn().Err(genErr).Str("user_id", userID).Msg("Workout recommendation degraded")
	}

	return c.JSON(http.StatusOK, map[string]string{"recommendation": result.Text})
}

// RecommendMealHandler generates one meal suggestion for the requested
// meal type (?type=, defaulting to lunch).
func (h *Handler) RecommendMealHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	profile, err := h.agg.Profile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Profile lookup failed for meal recommendation")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Data store temporarily unavailable"})
	}
	if profile == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Profile not found. Please complete onboarding first."})
	}

	mealType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if mealType == "" {
		mealType = strings.ToLower(strings.TrimSpace(c.QueryParam("meal_type")))
	}

	recent, err := h.store.ListNutritionLogs(ctx, userID, database.ListOptions{Desc: true, Limit: recommendationHistoryLimit})
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("Nutrition history unavailable, recommending without it")
		recent = nil
	}

	prompt := geminiservice.BuildMealPrompt(
		profile.PrimaryGoal,
		profile.DietaryPreferences.String,
		strings.Join(profile.Allergies, ", "),
		mealType,
		recent,
	)
	text, genErr := h.generator.Generate(ctx, prompt)
	result := geminiservice.Classify(text, genErr)
	if result.Kind != geminiservice.Ok {
		log.Warn().Err(genErr).Str("user_id", userID).Msg("Meal recommendation degraded")
	}

	return c.JSON(http.StatusOK, map[string]string{"recommendation": result.Text})
}
