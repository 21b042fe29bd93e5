package health

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/auth"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/internal/users"
	"github.com/yash81300/arogyamitra/pkg"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, wrapAI func(name string, h http.Handler) http.Handler) {
	healthRouter := router.PathPrefix("/api/health").Subrouter()
	healthRouter.HandleFunc("/assessment/submit", handler.HandleSubmit).Methods("POST", "OPTIONS").Name("health-assessment-submit")
	healthRouter.HandleFunc("/assessment/latest", handler.HandleLatest).Methods("GET", "OPTIONS").Name("health-assessment-latest")
	healthRouter.Handle("/analysis/analyze", wrapAI("health-analyze", http.HandlerFunc(handler.HandleAnalyze))).Methods("POST", "OPTIONS").Name("health-analyze")
}

func decodeQuestionnaire(w http.ResponseWriter, r *http.Request) (Questionnaire, bool) {
	var q Questionnaire
	if err := pkg.DecodeJSONBody(r, &q); err != nil {
		if errors.Is(err, pkg.ErrInvalidContentType) {
			http.Error(w, "invalid content type", http.StatusBadRequest)
			return q, false
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return q, false
	}
	return q, true
}

func (handler *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.submit")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	q, ok := decodeQuestionnaire(w, r)
	if !ok {
		return
	}

	id, err := handler.service.Submit(ctx, userID, q)
	if err != nil {
		log.Errorf("submit health assessment for user %d: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"id":      id,
		"message": "Health assessment completed successfully!",
	})
}

func (handler *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.latest")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	assessment, err := handler.service.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoAssessment) {
			pkg.WriteJSONOK(w, map[string]any{
				"message": "No health assessment found",
			})
			return
		}
		log.Errorf("get latest health assessment for user %d: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, assessment)
}

func (handler *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health.analyze")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	q, ok := decodeQuestionnaire(w, r)
	if !ok {
		return
	}

	analysis, err := handler.service.Analyze(ctx, userID, q)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("analyze health for user %d: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"analysis": analysis,
	})
}
