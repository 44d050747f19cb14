package user

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/Paburo99/fitmind-backend/internal/geminiservice"
	"github.com/Paburo99/fitmind-backend/internal/metrics"
	"github.com/Paburo99/fitmind-backend/internal/utility"
)

// insightWindowDays is the lookback for generated insights.
const insightWindowDays = 30

// GenerateInsightsHandler composes the 30-day insight prompt, runs one
// generation, and returns the cleaned insight lines. Generation failures
// degrade to a fixed fallback insight rather than an error.
func (h *Handler) GenerateInsightsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	profile, err := h.agg.Profile(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Profile lookup failed for insights")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Data store temporarily unavailable"})
	}
	if profile == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Profile not found. Please complete onboarding first."})
	}

	since := h.today().AddDate(0, 0, -(insightWindowDays - 1))

	var (
		weights   []database.WeightLog
		nutrition []database.NutritionLog
		workouts  []database.WorkoutLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		weights, err = h.agg.WindowedWeights(gctx, userID, since)
		return err
	})
	g.Go(func() error {
		var err error
		nutrition, err = h.agg.WindowedNutrition(gctx, userID, since)
		return err
	})
	g.Go(func() error {
		var err error
		workouts, err = h.agg.WindowedWorkouts(gctx, userID, since)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Insight window queries failed")
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Data store temporarily unavailable"})
	}

	stats := metrics.ComputeInsightStats(weights, nutrition, workouts, insightWindowDays)
	prompt := geminiservice.BuildInsightsPrompt(geminiservice.InsightsPromptInput{
		Profile:   profile,
		Weights:   weights,
		Nutrition: nutrition,
		Workouts:  workouts,
		Stats:     stats,
	})

	text, genErr := h.generator.Generate(ctx, prompt)
	result := geminiservice.Classify(text, genErr)

	var insights []string
	if result.Kind == geminiservice.Ok {
		insights = geminiservice.SplitInsightLines(result.Text)
	} else {
		log.Warn().Err(genErr).Str("user_id", userID).Int("kind", int(result.Kind)).Msg("Insight generation degraded to fallback")
		insights = []string{geminiservice.FallbackInsight}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"insights": insights,
		"stats":    stats,
	})
}
