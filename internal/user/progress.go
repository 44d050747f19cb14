package user

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/Paburo99/fitmind-backend/internal/metrics"
	"github.com/Paburo99/fitmind-backend/internal/utility"
)

const defaultProgressWindowDays = 30

// progressWindow reads ?days=N, clamped to [1, 365], defaulting to 30.
func progressWindow(c echo.Context) int {
	daysStr := c.QueryParam("days")
	if daysStr == "" {
		return defaultProgressWindowDays
	}
	days, err := strconv.Atoi(daysStr)
	if err != nil || days < 1 {
		return defaultProgressWindowDays
	}
	if days > 365 {
		return 365
	}
	return days
}

// WeightProgressHandler returns the weight series for the charting window,
// oldest first.
func (h *Handler) WeightProgressHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	days := progressWindow(c)
	since := h.today().AddDate(0, 0, -(days - 1))

	logs, err := h.agg.WindowedWeights(ctx, userID, since)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to retrieve weight progress")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve weight progress"})
	}
	if logs == nil {
		logs = []database.WeightLog{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"days": days, "data": logs})
}

// NutritionProgressHandler returns the nutrition series for the charting
// window, oldest first.
func (h *Handler) NutritionProgressHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	days := progressWindow(c)
	since := h.today().AddDate(0, 0, -(days - 1))

	logs, err := h.agg.WindowedNutrition(ctx, userID, since)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to retrieve nutrition progress")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve nutrition progress"})
	}
	if logs == nil {
		logs = []database.NutritionLog{}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"days": days, "data": logs})
}

// WorkoutProgressHandler returns the workout series for the charting
// window plus summary stats derived from it.
func (h *Handler) WorkoutProgressHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	days := progressWindow(c)
	since := h.today().AddDate(0, 0, -(days - 1))

	logs, err := h.agg.WindowedWorkouts(ctx, userID, since)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to retrieve workout progress")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve workout progress"})
	}
	if logs == nil {
		logs = []database.WorkoutLog{}
	}

	stats := metrics.ComputeInsightStats(nil, nil, logs, days)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"days": days,
		"data": logs,
		"summary": map[string]interface{}{
			"workout_days":           stats.WorkoutDays,
			"workout_frequency_pct":  stats.WorkoutFrequencyPct,
			"total_exercise_minutes": stats.TotalExerciseMinutes,
			"workout_types":          stats.WorkoutTypes,
		},
	})
}
