package user

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/Paburo99/fitmind-backend/internal/utility"
)

// WorkoutLogRequest is the payload for logging one workout. Date defaults
// to today when omitted.
type WorkoutLogRequest struct {
	Date            string   `json:"date"`
	Type            string   `json:"type"`
	DurationMinutes int32    `json:"duration_minutes"`
	CaloriesBurned  *float64 `json:"calories_burned"`
	Notes           *string  `json:"notes"`
}

type NutritionLogRequest struct {
	Date                string   `json:"date"`
	MealType            string   `json:"meal_type"`
	FoodItemDescription string   `json:"food_item_description"`
	Calories            *float64 `json:"calories"`
	ProteinG            *float64 `json:"protein_g"`
	CarbsG              *float64 `json:"carbs_g"`
	FatG                *float64 `json:"fat_g"`
}

type WeightLogRequest struct {
	Date     string   `json:"date"`
	WeightKg *float64 `json:"weight_kg"`
	Notes    *string  `json:"notes"`
}

type WaterLogRequest struct {
	Date     string   `json:"date"`
	AmountMl *float64 `json:"amount_ml"`
}

// LogWorkoutHandler stores one workout entry.
func (h *Handler) LogWorkoutHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req WorkoutLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.Type == "" || req.DurationMinutes <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "type and a positive duration_minutes are required"})
	}

	date, err := utility.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	w := database.WorkoutLog{
		UserID:          userID,
		Date:            pgtype.Date{Time: date, Valid: true},
		Type:            req.Type,
		DurationMinutes: req.DurationMinutes,
	}
	if req.CaloriesBurned != nil {
		w.CaloriesBurned = pgtype.Float8{Float64: *req.CaloriesBurned, Valid: true}
	}
	if req.Notes != nil {
		w.Notes = pgtype.Text{String: *req.Notes, Valid: true}
	}

	id, err := h.store.InsertWorkoutLog(ctx, w)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to insert workout log")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to log workout"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"message": "Workout logged successfully", "id": id})
}

// LogNutritionHandler stores one nutrition entry.
func (h *Handler) LogNutritionHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req NutritionLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.MealType == "" || req.FoodItemDescription == "" || req.Calories == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "meal_type, food_item_description, and calories are required"})
	}

	date, err := utility.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	n := database.NutritionLog{
		UserID:              userID,
		Date:                pgtype.Date{Time: date, Valid: true},
		MealType:            req.MealType,
		FoodItemDescription: req.FoodItemDescription,
		Calories:            *req.Calories,
	}
	if req.ProteinG != nil {
		n.ProteinG = pgtype.Float8{Float64: *req.ProteinG, Valid: true}
	}
	if req.CarbsG != nil {
		n.CarbsG = pgtype.Float8{Float64: *req.CarbsG, Valid: true}
	}
	if req.FatG != nil {
		n.FatG = pgtype.Float8{Float64: *req.FatG, Valid: true}
	}

	id, err := h.store.InsertNutritionLog(ctx, n)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to insert nutrition log")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to log nutrition"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"message": "Nutrition logged successfully", "id": id})
}

// LogWeightHandler stores one body-weight entry.
func (h *Handler) LogWeightHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req WeightLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.WeightKg == nil || *req.WeightKg <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "a positive weight_kg is required"})
	}

	date, err := utility.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	w := database.WeightLog{
		UserID:   userID,
		Date:     pgtype.Date{Time: date, Valid: true},
		WeightKg: *req.WeightKg,
	}
	if req.Notes != nil {
		w.Notes = pgtype.Text{String: *req.Notes, Valid: true}
	}

	id, err := h.store.InsertWeightLog(ctx, w)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to insert weight log")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to log weight"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"message": "Weight logged successfully", "id": id})
}

// LogWaterHandler stores one water-intake entry.
func (h *Handler) LogWaterHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	var req WaterLogRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if req.AmountMl == nil || *req.AmountMl <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "a positive amount_ml is required"})
	}

	date, err := utility.ParseDate(req.Date)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	id, err := h.store.InsertWaterLog(ctx, database.WaterLog{
		UserID:   userID,
		Date:     pgtype.Date{Time: date, Valid: true},
		AmountMl: *req.AmountMl,
	})
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to insert water log")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to log water intake"})
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{"message": "Water intake logged successfully", "id": id})
}

// listOptions builds query narrowing from ?date=YYYY-MM-DD and ?limit=N.
// Without a date filter the newest rows come first.
func (h *Handler) listOptions(c echo.Context) (database.ListOptions, error) {
	var opts database.ListOptions

	if dateStr := c.QueryParam("date"); dateStr != "" {
		date, err := utility.ParseDate(dateStr)
		if err != nil {
			return opts, err
		}
		opts.OnDate = &date
	} else {
		opts.Desc = true
	}

	if limitStr := c.QueryParam("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 32)
		if err != nil || limit <= 0 {
			return opts, fmt.Errorf("limit must be a positive integer")
		}
		opts.Limit = int32(limit)
	}

	return opts, nil
}

// GetWorkoutLogsHandler lists workout entries, optionally for one day.
func (h *Handler) GetWorkoutLogsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	opts, err := h.listOptions(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	logs, err := h.store.ListWorkoutLogs(ctx, userID, opts)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list workout logs")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve workout logs"})
	}
	if logs == nil {
		logs = []database.WorkoutLog{}
	}

	return c.JSON(http.StatusOK, logs)
}

// GetNutritionLogsHandler lists nutrition entries, optionally for one day.
func (h *Handler) GetNutritionLogsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	opts, err := h.listOptions(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	logs, err := h.store.ListNutritionLogs(ctx, userID, opts)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list nutrition logs")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve nutrition logs"})
	}
	if logs == nil {
		logs = []database.NutritionLog{}
	}

	return c.JSON(http.StatusOK, logs)
}

// GetWeightLogsHandler lists weight entries, optionally for one day.
func (h *Handler) GetWeightLogsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	opts, err := h.listOptions(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	logs, err := h.store.ListWeightLogs(ctx, userID, opts)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list weight logs")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve weight logs"})
	}
	if logs == nil {
		logs = []database.WeightLog{}
	}

	return c.JSON(http.StatusOK, logs)
}

// GetWaterLogsHandler lists water entries, optionally for one day.
func (h *Handler) GetWaterLogsHandler(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := utility.GetUserIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
	}

	opts, err := h.listOptions(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	logs, err := h.store.ListWaterLogs(ctx, userID, opts)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to list water logs")
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to retrieve water logs"})
	}
	if logs == nil {
		logs = []database.WaterLog{}
	}

	return c.JSON(http.StatusOK, logs)
}
