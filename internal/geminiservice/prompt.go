package geminiservice

import (
	"fmt"
	"strings"
	"time"

	"github.com/Paburo99/fitmind-backend/internal/database"
	"github.com/Paburo99/fitmind-backend/internal/metrics"
)

/* =================================================================================
							STATIC PROMPT CONFIGURATION
=================================================================================*/

// PageContext describes what the assistant can do on one page of the app.
type PageContext struct {
	Focus        string
	Capabilities []string
	DataTypes    string
}

// pageContexts maps a page identifier to its declared focus and
// capabilities. Unknown pages fall back to the dashboard entry.
var pageContexts = map[string]PageContext{
	"dashboard": {
		Focus: "fitness metrics overview, daily summaries, and motivational insights",
		Capabilities: []string{
			"Interpret fitness dashboard data and trends",
			"Provide motivational insights based on progress",
			"Suggest daily action items and improvements",
			"Explain metric relationships and patterns",
		},
		DataTypes: "workout counts, calorie tracking, water intake, weight trends",
	},
	"profile": {
		Focus: "personal settings, goal establishment, and profile optimization",
		Capabilities: []string{
			"Guide through profile setup and optimization",
			"Recommend appropriate fitness levels and goals",
			"Explain dietary preferences and their impact",
			"Assist with personal information and privacy settings",
		},
		DataTypes: "fitness goals, dietary preferences, personal metrics, activity levels",
	},
	"track_data": {
		Focus: "data logging, workout recording, and nutrition tracking",
		Capabilities: []string{
			"Guide through workout and nutrition logging",
			"Explain tracking best practices and accuracy",
			"Help categorize exercises and food items",
			"Assist with consistent data recording habits",
		},
		DataTypes: "workout logs, nutrition entries, water intake, activity tracking",
	},
	"recommendations": {
		Focus: "AI-powered suggestions for workouts and meals",
		Capabilities: []string{
			"Explain AI recommendation reasoning",
			"Help customize and interpret suggestions",
			"Guide implementation of workout and meal plans",
			"Provide alternatives and modifications to recommendations",
		},
		DataTypes: "personalized workout plans, meal suggestions, AI insights",
	},
	"progress": {
		Focus: "analytics, trends, and progress interpretation",
		Capabilities: []string{
			"Interpret charts, graphs, and progress metrics",
			"Identify patterns and trends in fitness data",
			"Provide actionable insights from analytics",
			"Guide goal adjustment based on progress",
		},
		DataTypes: "progress charts, trend analysis, comparative metrics, goal tracking",
	},
}

const fallbackPageContext = "dashboard"

// calorieBands maps a meal type to its target calorie range, rendered
// verbatim into meal prompts.
var calorieBands = map[string]string{
	"breakfast": "300-500",
	"lunch":     "400-700",
	"dinner":    "400-600",
	"snack":     "100-300",
}

// fallbackMealType is used when the requested meal type is not in the band
// table.
const fallbackMealType = "lunch"

// CalorieBand returns the calorie range for a meal type, falling back to
// the lunch band for unknown types.
func CalorieBand(mealType string) string {
	if band, ok := calorieBands[mealType]; ok {
		return band
	}
	return calorieBands[fallbackMealType]
}

// PageContextFor resolves a page identifier, falling back to dashboard.
func PageContextFor(page string) (string, PageContext) {
	if ctx, ok := pageContexts[page]; ok {
		return page, ctx
	}
	return fallbackPageContext, pageContexts[fallbackPageContext]
}

/* =================================================================================
							CONTEXT-AWARE CHAT PROMPT
=================================================================================*/

// ChatTurn is one prior exchange supplied by the client. Only the most
// recent three are rendered.
type ChatTurn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// maxHistoryTurns bounds how much prior conversation is replayed into the
// prompt.
const maxHistoryTurns = 3

// ChatPromptInput collects everything the chat prompt depends on. Given
// identical input (including Now) the composed prompt is identical.
type ChatPromptInput struct {
	Message     string
	PageContext string
	History     []ChatTurn
	Constraints []string
	Now         time.Time
}

// BuildChatPrompt renders the context-aware chat prompt as ordered parts.
func BuildChatPrompt(in ChatPromptInput) []string {
	page, ctx := PageContextFor(in.PageContext)

	parts := []string{
		"FITMIND AI ASSISTANT - CONTEXT-AWARE RESPONSE SYSTEM",
		"",
		"ROLE & IDENTITY:",
		"You are FitMind AI, an expert fitness and wellness assistant integrated into the FitMind fitness tracking application. You provide personalized, context-aware guidance to help users achieve their health and fitness goals.",
		"",
		"CURRENT SESSION CONTEXT:",
		fmt.Sprintf("Page Focus: %s - %s", titleCase(page), ctx.Focus),
		fmt.Sprintf("Session Time: %s", in.Now.Format("2006-01-02 15:04:05")),
		"",
		fmt.Sprintf("SPECIALIZED CAPABILITIES FOR %s:", strings.ToUpper(page)),
	}
	for _, capability := range ctx.Capabilities {
		parts = append(parts, fmt.Sprintf("  - %s", capability))
	}
	parts = append(parts, "", fmt.Sprintf("DATA CONTEXT: %s", ctx.DataTypes))

	if len(in.Constraints) > 0 {
		parts = append(parts, "", "OPERATIONAL CONSTRAINTS:")
		for _, constraint := range in.Constraints {
			parts = append(parts, fmt.Sprintf("  - %s", constraint))
		}
	}

	parts = append(parts,
		"",
		"RESPONSE GUIDELINES:",
		"- Keep responses concise but comprehensive (2-4 sentences unless complex explanation needed)",
		fmt.Sprintf("- Stay focused on %s-related topics and the fitness/wellness domain", page),
		"- Use an encouraging, motivational, and professional tone",
		"- Provide specific, actionable advice when possible",
		"- Do not provide medical diagnoses or replace professional medical advice",
		"- Do not make assumptions about the user's personal data without context",
	)

	if history := lastTurns(in.History, maxHistoryTurns); len(history) > 0 {
		parts = append(parts, "", "RECENT CONVERSATION CONTEXT:")
		for _, turn := range history {
			parts = append(parts,
				fmt.Sprintf("user: %s", turn.User),
				fmt.Sprintf("assistant: %s", turn.Assistant),
			)
		}
	}

	parts = append(parts,
		"",
		"USER'S CURRENT QUESTION:",
		fmt.Sprintf("%q", in.Message),
		"",
		fmt.Sprintf("TASK: Provide a helpful, context-aware response that addresses the user's question while staying within the %s context and following all guidelines above.", page),
	)

	return parts
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// lastTurns keeps the most recent n turns in original order.
func lastTurns(history []ChatTurn, n int) []ChatTurn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

/* =================================================================================
							INSIGHT-GENERATION PROMPT
=================================================================================*/

// InsightsPromptInput holds the profile, the three 30-day windowed series,
// and the derived metrics block.
type InsightsPromptInput struct {
	Profile   *database.Profile
	Weights   []database.WeightLog
	Nutrition []database.NutritionLog
	Workouts  []database.WorkoutLog
	Stats     metrics.InsightStats
}

// BuildInsightsPrompt renders the fitness-insights prompt as ordered parts.
func BuildInsightsPrompt(in InsightsPromptInput) []string {
	goal, level, startWeight := "Not set", "Not set", "not recorded"
	if in.Profile != nil {
		if in.Profile.PrimaryGoal != "" {
			goal = in.Profile.PrimaryGoal
		}
		if in.Profile.FitnessLevel != "" {
			level = in.Profile.FitnessLevel
		}
		if in.Profile.InitialWeightKg.Valid {
			startWeight = fmt.Sprintf("%.1f kg", in.Profile.InitialWeightKg.Float64)
		}
	}

	days := in.Stats.WindowDays
	parts := []string{
		fmt.Sprintf("User Profile: Goal - %s, Fitness Level - %s, Starting Weight - %s.", goal, level, startWeight),
	}

	if len(in.Weights) > 0 {
		parts = append(parts, fmt.Sprintf("Recent weight data (last %d days):", days))
		for _, w := range in.Weights {
			parts = append(parts, fmt.Sprintf("  %s: %.1f kg", w.Date.Time.Format("2006-01-02"), w.WeightKg))
		}
	} else {
		parts = append(parts, fmt.Sprintf("No weight data recorded in the last %d days.", days))
	}

	if len(in.Nutrition) > 0 {
		parts = append(parts, fmt.Sprintf("Recent nutrition log (last %d days):", days))
		for _, n := range in.Nutrition {
			parts = append(parts, fmt.Sprintf("  %s: %s (%s) - %.0f kcal%s",
				n.Date.Time.Format("2006-01-02"), n.FoodItemDescription, n.MealType, n.Calories, macroSuffix(n)))
		}
	} else {
		parts = append(parts, fmt.Sprintf("No nutrition data recorded in the last %d days.", days))
	}

	if len(in.Workouts) > 0 {
		parts = append(parts, fmt.Sprintf("Recent workout log (last %d days):", days))
		for _, w := range in.Workouts {
			parts = append(parts, fmt.Sprintf("  %s: %s, %d min%s",
				w.Date.Time.Format("2006-01-02"), w.Type, w.DurationMinutes, burnedSuffix(w)))
		}
	} else {
		parts = append(parts, fmt.Sprintf("No workout data recorded in the last %d days.", days))
	}

	parts = append(parts, "", "DERIVED METRICS:")
	parts = append(parts,
		fmt.Sprintf("  Tracking consistency: %.0f%% of the last %d days have at least one log", in.Stats.TrackingConsistencyPct, days),
		fmt.Sprintf("  Workout frequency: %.0f%% (%d workout days)", in.Stats.WorkoutFrequencyPct, in.Stats.WorkoutDays),
		fmt.Sprintf("  Total exercise: %d minutes (%.1f hours)", in.Stats.TotalExerciseMinutes, float64(in.Stats.TotalExerciseMinutes)/60),
	)
	if len(in.Stats.WorkoutTypes) > 0 {
		parts = append(parts, fmt.Sprintf("  Workout types: %s", strings.Join(in.Stats.WorkoutTypes, ", ")))
	}
	parts = append(parts, fmt.Sprintf("  Nutrition logged on %.0f%% of days", in.Stats.NutritionDaysPct))
	if in.Stats.NutritionDays > 0 {
		parts = append(parts, fmt.Sprintf("  Average daily calories on logged days: %.0f kcal", in.Stats.AvgDailyCalories))
	}
	parts = append(parts, fmt.Sprintf("  Weight trend: %s (%+.1f kg over the window)", in.Stats.WeightTrend, in.Stats.WeightDeltaKg))

	parts = append(parts,
		"",
		"Based on all the provided data (user profile, weight, nutrition, and workouts), provide 3-4 short bullet insights:",
		"- Celebrate one positive trend in their data",
		"- Identify one area with room for improvement",
		"- Give one actionable recommendation for the coming week, directly related to their primary goal",
		"- Optionally close with a short motivational note",
		"Never criticize; always encourage. If there is very little data, acknowledge that and encourage them to keep tracking consistently.",
		"Phrase the insights as if you are an AI Fitness Coach. One insight per line.",
	)

	return parts
}

func macroSuffix(n database.NutritionLog) string {
	var macros []string
	if n.ProteinG.Valid {
		macros = append(macros, fmt.Sprintf("%.0fg protein", n.ProteinG.Float64))
	}
	if n.CarbsG.Valid {
		macros = append(macros, fmt.Sprintf("%.0fg carbs", n.CarbsG.Float64))
	}
	if n.FatG.Valid {
		macros = append(macros, fmt.Sprintf("%.0fg fat", n.FatG.Float64))
	}
	if len(macros) == 0 {
		return ""
	}
	return ", " + strings.Join(macros, ", ")
}

func burnedSuffix(w database.WorkoutLog) string {
	if !w.CaloriesBurned.Valid {
		return ""
	}
	return fmt.Sprintf(" (%.0f kcal burned)", w.CaloriesBurned.Float64)
}

/* =================================================================================
							RECOMMENDATION PROMPTS
=================================================================================*/

// maxHistoryEntries bounds how many history records are rendered into a
// recommendation prompt.
const maxHistoryEntries = 3

// BuildWorkoutPrompt renders a workout recommendation prompt for the given
// fitness level and goal, with up to three recent workouts as context.
func BuildWorkoutPrompt(fitnessLevel, primaryGoal string, recent []database.WorkoutLog) []string {
	if fitnessLevel == "" {
		fitnessLevel = "beginner"
	}
	if primaryGoal == "" {
		primaryGoal = "general fitness"
	}

	parts := []string{
		"You are acting as a personal workout coach.",
		"",
		"USER PROFILE:",
		fmt.Sprintf("  Fitness level: %s", fitnessLevel),
		fmt.Sprintf("  Primary goal: %s", primaryGoal),
	}

	if len(recent) > 0 {
		parts = append(parts, "", "RECENT WORKOUTS:")
		shown := recent
		if len(shown) > maxHistoryEntries {
			shown = shown[:maxHistoryEntries]
		}
		for _, w := range shown {
			parts = append(parts, fmt.Sprintf("  %s: %s, %d min", w.Date.Time.Format("2006-01-02"), w.Type, w.DurationMinutes))
		}
	}

	parts = append(parts,
		"",
		"REQUIREMENTS:",
		fmt.Sprintf("  - Suggest a challenging but appropriate workout for a %s-level user", fitnessLevel),
		fmt.Sprintf("  - The workout must support the goal of %s", primaryGoal),
		"  - Include specific exercises, sets, and reps; for cardio suggest type and duration",
	)

	if dominant := dominantWorkoutType(recent); dominant != "" {
		parts = append(parts, fmt.Sprintf("  - Their recent sessions are mostly %q; suggest something different for variety", dominant))
	}

	parts = append(parts,
		"",
		"OUTPUT FORMAT: a short title, one sentence on why this fits the user, the structured workout, and a closing tip.",
	)

	return parts
}

// BuildMealPrompt renders a meal recommendation prompt for the given goal,
// dietary preferences, allergies, and meal type, with up to three recent
// nutrition entries as context.
func BuildMealPrompt(primaryGoal, dietPrefs, allergies, mealType string, recent []database.NutritionLog) []string {
	if primaryGoal == "" {
		primaryGoal = "healthy eating"
	}
	if dietPrefs == "" {
		dietPrefs = "none"
	}
	if allergies == "" {
		allergies = "none"
	}
	if _, ok := calorieBands[mealType]; !ok {
		mealType = fallbackMealType
	}

	parts := []string{
		"You are acting as a personal nutrition coach.",
		"",
		"USER PROFILE:",
		fmt.Sprintf("  Primary health goal: %s", primaryGoal),
		fmt.Sprintf("  Dietary preferences: %s", dietPrefs),
		fmt.Sprintf("  Allergies/intolerances: %s", allergies),
	}

	if len(recent) > 0 {
		parts = append(parts, "", "RECENT MEALS:")
		shown := recent
		if len(shown) > maxHistoryEntries {
			shown = shown[:maxHistoryEntries]
		}
		for _, n := range shown {
			parts = append(parts, fmt.Sprintf("  %s: %s, %.0f kcal", n.Date.Time.Format("2006-01-02"), n.FoodItemDescription, n.Calories))
		}
	}

	parts = append(parts,
		"",
		"REQUIREMENTS:",
		fmt.Sprintf("  - Suggest a healthy and simple recipe for %s", mealType),
		fmt.Sprintf("  - Stay within the %s calorie range of %s kcal", mealType, CalorieBand(mealType)),
		"  - Strictly avoid all listed allergies and intolerances",
		"  - Include ingredients and basic instructions",
		"",
		"OUTPUT FORMAT: a short title, one sentence on why this fits the user, the recipe, and a closing tip.",
	)

	return parts
}

// dominantWorkoutType returns the workout type that accounts for more than
// half of the history, or "" when nothing dominates.
func dominantWorkoutType(recent []database.WorkoutLog) string {
	if len(recent) == 0 {
		return ""
	}
	counts := make(map[string]int)
	for _, w := range recent {
		counts[w.Type]++
	}
	for t, n := range counts {
		if n*2 > len(recent) {
			return t
		}
	}
	return ""
}
