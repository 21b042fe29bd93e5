package ledger

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/auth"
	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/pkg"
)

type toggleExerciseRequest struct {
	ExerciseKey string `json:"exercise_key"`
}

type completeMealRequest struct {
	MealKey string `json:"meal_key"`
}

type completeExerciseRequest struct {
	ExerciseKey    string `json:"exercise_key"`
	ExerciseName   string `json:"exercise_name"`
	CaloriesBurned int    `json:"calories_burned"`
}

type logProgressRequest struct {
	Weight             *float64 `json:"weight"`
	BodyFatPercent     *float64 `json:"body_fat_percent"`
	MuscleMass         *float64 `json:"muscle_mass"`
	WaistCircumference *float64 `json:"waist_circumference"`
	CaloriesBurned     *int     `json:"calories_burned"`
	Notes              *string  `json:"notes"`
}

type Handler struct {
	ledger *Ledger
}

func NewHandler(ledger *Ledger) *Handler {
	return &Handler{
		ledger: ledger,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/workouts/toggle-exercise", handler.HandleToggleExercise).Methods("POST", "OPTIONS").Name("workout-toggle-exercise")
	router.HandleFunc("/api/workouts/complete-exercise", handler.HandleCompleteExercise).Methods("POST", "OPTIONS").Name("workout-complete-exercise")
	router.HandleFunc("/api/nutrition/complete-meal", handler.HandleCompleteMeal).Methods("POST", "OPTIONS").Name("nutrition-complete-meal")
	router.HandleFunc("/api/progress/log", handler.HandleLogProgress).Methods("POST", "OPTIONS").Name("progress-log")
}

func writeError(w http.ResponseWriter, err error, logMsg string) {
	if vErr, ok := pkg.AsValidationError(err); ok {
		http.Error(w, vErr.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, pkg.ErrInvalidContentType):
		http.Error(w, "invalid content type", http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrStorageConflict):
		log.Warnf("%s: %s", logMsg, err)
		w.Header().Set("Retry-After", "1")
		http.Error(w, "too many concurrent updates, try again", http.StatusServiceUnavailable)
	default:
		log.Errorf("%s: %s", logMsg, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := pkg.DecodeJSONBody(r, v); err != nil {
		if errors.Is(err, pkg.ErrInvalidContentType) {
			return err
		}
		return pkg.NewValidationError("", "invalid request body")
	}
	return nil
}

func (handler *Handler) HandleToggleExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.toggleExercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req toggleExerciseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, "toggle exercise")
		return
	}

	res, err := handler.ledger.ToggleItem(ctx, userID, plans.KindWorkout, req.ExerciseKey)
	if err != nil {
		writeError(w, err, fmt.Sprintf("toggle exercise for user %d", userID))
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"exercise_key":    req.ExerciseKey,
		"is_completed":    res.IsCompleted,
		"points_awarded":  res.PointsAwarded,
		"points":          res.Points,
		"milestone_count": res.MilestoneCount,
	})
}

func (handler *Handler) HandleCompleteMeal(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.completeMeal")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req completeMealRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, "complete meal")
		return
	}

	res, err := handler.ledger.ToggleItem(ctx, userID, plans.KindNutrition, req.MealKey)
	if err != nil {
		writeError(w, err, fmt.Sprintf("complete meal for user %d", userID))
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"meal_key":        req.MealKey,
		"is_completed":    res.IsCompleted,
		"points_awarded":  res.PointsAwarded,
		"points":          res.Points,
		"milestone_count": res.MilestoneCount,
	})
}

func (handler *Handler) HandleCompleteExercise(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.completeExercise")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req completeExerciseRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, "complete exercise")
		return
	}

	res, err := handler.ledger.CompleteActivity(ctx, userID, plans.KindWorkout, req.ExerciseKey, req.ExerciseName, req.CaloriesBurned)
	if err != nil {
		writeError(w, err, fmt.Sprintf("complete exercise for user %d", userID))
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"calories_burned": res.CaloriesBurned,
		"already_counted": res.AlreadyCounted,
		"total_workouts":  res.ActivityCount,
		"points":          res.Points,
		"milestone_count": res.MilestoneCount,
	})
}

func (handler *Handler) HandleLogProgress(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.ledger.logProgress")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req logProgressRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err, "log progress")
		return
	}

	res, err := handler.ledger.LogManualProgress(ctx, userID, ManualEntry(req))
	if err != nil {
		writeError(w, err, fmt.Sprintf("log progress for user %d", userID))
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, map[string]any{
		"id":              res.RecordID,
		"message":         "Progress logged!",
		"calories_burned": res.CaloriesBurned,
		"points_awarded":  res.Awarded,
		"points":          res.Points,
		"milestone_count": res.MilestoneCount,
	})
}
