package user

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Paburo99/fitmind-backend/internal/metrics"
	"github.com/Paburo99/fitmind-backend/internal/utility"
)

// DashboardSummary is the single payload backing the dashboard screen.
type DashboardSummary struct {
	metrics.DerivedSummary
	metrics.WeeklySummary

	CurrentStreakDays int   `json:"current_streak_days"`
	TotalWorkouts     int64 `json:"total_workouts"`

	WeeklyWorkoutGoal int32 `json:"weekly_workout_goal"`
	DailyActivityGoal int32 `json:"daily_activity_goal"`
}

// DashboardSummaryHandler assembles today's snapshot, the rolling week,
// the activity streak, and the profile goals. Individual metric failures
// degrade to zeros instead of failing the whole screen.
func (h *Handler) DashboardSummaryHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	today := h.today()
	// Week starts on Monday.
	offset := (int(today.Weekday()) - int(time.Monday) + 7) % 7
	weekStart := today.AddDate(0, 0, -offset)

	summary := DashboardSummary{
		DerivedSummary:    h.agg.TodaySummary(ctx, userID, today),
		WeeklySummary:     h.agg.WeekSummary(ctx, userID, weekStart),
		CurrentStreakDays: h.agg.CurrentStreak(ctx, userID, today),
		TotalWorkouts:     h.agg.TotalWorkouts(ctx, userID),
	}

	// Profile goals are optional dashboard chrome; absence is fine.
	if profile, err := h.agg.Profile(ctx, userID); err == nil && profile != nil {
		summary.WeeklyWorkoutGoal = profile.WeeklyWorkoutGoal
		summary.DailyActivityGoal = profile.DailyActivityGoal
	}

	return c.JSON(http.StatusOK, summary)
}
