// Package user holds the authenticated API handlers: profile management,
// activity logging, dashboard and progress reads, and the AI endpoints.
package user

import (
	"context"
	"time"

	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/Paburo99/fitmind-backend/internal/geminiservice"
	"github.com/Paburo99/fitmind-backend/internal/metrics"
)

// Store is the full data surface the handlers need. *database.Queries
// implements it.
type Store interface {
	metrics.Store

	UpsertProfile(ctx context.Context, p database.Profile) (*database.Profile, error)
	InsertWorkoutLog(ctx context.Context, w database.WorkoutLog) (int64, error)
	InsertNutritionLog(ctx context.Context, n database.NutritionLog) (int64, error)
	InsertWeightLog(ctx context.Context, w database.WeightLog) (int64, error)
	InsertWaterLog(ctx context.Context, w database.WaterLog) (int64, error)
}

// Handler carries the handlers' dependencies. Everything is injected at
// construction; there is no package-level state.
type Handler struct {
	store     Store
	agg       *metrics.Aggregator
	generator geminiservice.Generator

	// now is stubbed in tests.
	now func() time.Time
}

// NewHandler wires a Handler from its dependencies.
func NewHandler(store Store, agg *metrics.Aggregator, generator geminiservice.Generator) *Handler {
	return &Handler{
		store:     store,
		agg:       agg,
		generator: generator,
		now:       time.Now,
	}
}

// today returns the current calendar day at midnight UTC.
func (h *Handler) today() time.Time {
	now := h.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
