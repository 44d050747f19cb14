package server

import (
	"net/http"
	"runtime"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	e.Use(LoggerMiddleware)

	e.GET("/api/health", s.healthHandler)

	// Protected routes. Every data and AI endpoint requires a valid
	// Supabase access token.
	api := e.Group("/api")
	api.Use(s.verifier.JwtAuthMiddleware)

	// Profile & onboarding
	api.GET("/profile", s.handler.GetProfileHandler)
	api.POST("/profile", s.handler.UpsertProfileHandler)
	api.PUT("/profile", s.handler.UpsertProfileHandler)

	// Activity logging
	api.POST("/log/workout", s.handler.LogWorkoutHandler)
	api.POST("/log/nutrition", s.handler.LogNutritionHandler)
	api.POST("/log/weight", s.handler.LogWeightHandler)
	api.POST("/log/water", s.handler.LogWaterHandler)
	api.GET("/logs/workout", s.handler.GetWorkoutLogsHandler)
	api.GET("/logs/nutrition", s.handler.GetNutritionLogsHandler)
	api.GET("/logs/weight", s.handler.GetWeightLogsHandler)
	api.GET("/logs/water", s.handler.GetWaterLogsHandler)

	// Dashboard & progress
	api.GET("/dashboard/summary", s.handler.DashboardSummaryHandler)
	api.GET("/progress/weight", s.handler.WeightProgressHandler)
	api.GET("/progress/nutrition", s.handler.NutritionProgressHandler)
	api.GET("/progress/workouts", s.handler.WorkoutProgressHandler)

	// AI endpoints
	api.GET("/insights/generate", s.handler.GenerateInsightsHandler)
	api.GET("/recommend/workout", s.handler.RecommendWorkoutHandler)
	api.GET("/recommend/meal", s.handler.RecommendMealHandler)
	api.POST("/chat/context-aware", s.handler.ContextAwareChatHandler)

	return e
}

// healthHandler reports database pool health plus a host snapshot.
func (s *Server) healthHandler(c echo.Context) error {
	payload := map[string]interface{}{
		"database": s.db.Health(),
	}

	system := map[string]interface{}{
		"go_version":    runtime.Version(),
		"num_goroutine": runtime.NumGoroutine(),
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		system["memory_used_percent"] = vm.UsedPercent
	}
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		system["cpu_percent"] = percents[0]
	}
	if uptime, err := host.Uptime(); err == nil {
		system["host_uptime_seconds"] = uptime
	}
	payload["system"] = system
	payload["timestamp"] = time.Now().UTC().Format(time.RFC3339)

	return c.JSON(http.StatusOK, payload)
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
