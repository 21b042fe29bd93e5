package plans

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/auth"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/internal/users"
	"github.com/yash81300/arogyamitra/pkg"
)

type generateRequest struct {
	Days      int      `json:"days"`
	Allergies []string `json:"allergies"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// completedField is the json field holding the completion state per kind.
func completedField(kind Kind) string {
	if kind == KindNutrition {
		return "completed_meals"
	}
	return "completed_exercises"
}

func prefix(kind Kind) string {
	if kind == KindNutrition {
		return "/api/nutrition"
	}
	return "/api/workouts"
}

// SetupRoutes registers the plan routes of both kinds. Generation goes
// through wrapAI so the caller can rate limit it.
func (handler *Handler) SetupRoutes(router *mux.Router, wrapAI func(name string, h http.Handler) http.Handler) {
	for _, kind := range []Kind{KindWorkout, KindNutrition} {
		kindRouter := router.PathPrefix(prefix(kind)).Subrouter()
		name := string(kind)

		kindRouter.Handle("/generate", wrapAI(name+"-generate", handler.handleGenerate(kind))).Methods("POST", "OPTIONS").Name(name + "-generate")
		kindRouter.Handle("/current", handler.handleCurrent(kind)).Methods("GET", "OPTIONS").Name(name + "-current")
		kindRouter.Handle("/history", handler.handleHistory(kind)).Methods("GET", "OPTIONS").Name(name + "-history")
		kindRouter.Handle("/completed", handler.handleGetCompleted(kind)).Methods("GET", "OPTIONS").Name(name + "-completed")
		kindRouter.Handle("/completed", handler.handlePutCompleted(kind)).Methods("PUT", "OPTIONS").Name(name + "-completed-put")
	}
}

func writeError(w http.ResponseWriter, err error, logMsg string) {
	if vErr, ok := pkg.AsValidationError(err); ok {
		http.Error(w, vErr.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, pkg.ErrInvalidContentType):
		http.Error(w, "invalid content type", http.StatusBadRequest)
	case errors.Is(err, ErrNoActivePlan):
		http.Error(w, "no active plan", http.StatusNotFound)
	case errors.Is(err, users.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrInvalidGeneratedPlan):
		log.Errorf("%s: %s", logMsg, err)
		http.Error(w, "could not generate a valid plan, try again", http.StatusBadGateway)
	default:
		log.Errorf("%s: %s", logMsg, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (handler *Handler) handleGenerate(kind Kind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.generate."+string(kind))
		defer span.End()

		userID, ok := auth.UserIDFromContext(ctx)
		if !ok {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}

		var req generateRequest
		if r.ContentLength != 0 {
			if err := pkg.DecodeJSONBody(r, &req); err != nil {
				writeError(w, pkg.NewValidationError("", "invalid request body"), "generate plan")
				return
			}
		}

		p, err := handler.service.Generate(ctx, userID, kind, req.Days, req.Allergies)
		if err != nil {
			writeError(w, err, fmt.Sprintf("generate %s plan for user %d", kind, userID))
			return
		}

		pkg.WriteJSON(w, http.StatusCreated, Project(p))
	})
}

func (handler *Handler) handleCurrent(kind Kind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.current."+string(kind))
		defer span.End()

		userID, ok := auth.UserIDFromContext(ctx)
		if !ok {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}

		p, err := handler.service.Current(ctx, userID, kind)
		if err != nil {
			if errors.Is(err, ErrNoActivePlan) {
				pkg.WriteJSONOK(w, map[string]string{
					"message": fmt.Sprintf("No active %s plan. Please generate one!", kind),
				})
				return
			}
			writeError(w, err, "get current plan")
			return
		}

		pkg.WriteJSONOK(w, Project(p))
	})
}

func (handler *Handler) handleHistory(kind Kind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.history."+string(kind))
		defer span.End()

		userID, ok := auth.UserIDFromContext(ctx)
		if !ok {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}

		history, err := handler.service.History(ctx, userID, kind)
		if err != nil {
			writeError(w, err, "get plan history")
			return
		}

		pkg.WriteJSONOK(w, history)
	})
}

func (handler *Handler) handleGetCompleted(kind Kind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.completed."+string(kind))
		defer span.End()

		userID, ok := auth.UserIDFromContext(ctx)
		if !ok {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}

		states, err := handler.service.Completed(ctx, userID, kind)
		if err != nil {
			writeError(w, err, "get completed items")
			return
		}

		pkg.WriteJSONOK(w, map[string]any{completedField(kind): states})
	})
}

func (handler *Handler) handlePutCompleted(kind Kind) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.completedPut."+string(kind))
		defer span.End()

		userID, ok := auth.UserIDFromContext(ctx)
		if !ok {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}

		var body map[string]map[string]bool
		if err := pkg.DecodeJSONBody(r, &body); err != nil {
			writeError(w, pkg.NewValidationError("", "invalid request body"), "put completed items")
			return
		}
		states, ok := body[completedField(kind)]
		if !ok {
			writeError(w, pkg.NewValidationError(completedField(kind), "missing"), "put completed items")
			return
		}

		saved, err := handler.service.ReplaceCompleted(ctx, userID, kind, states)
		if err != nil {
			writeError(w, err, "put completed items")
			return
		}

		pkg.WriteJSONOK(w, map[string]any{completedField(kind): saved})
	})
}
