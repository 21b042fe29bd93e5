package coach

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

type chatRequest struct {
	Message    string `json:"message"`
	UserStatus string `json:"user_status"`
}

type adjustPlanRequest struct {
	Reason       string         `json:"reason"`
	DurationDays int            `json:"duration_days"`
	CurrentPlan  map[string]any `json:"current_plan"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router, wrapAI func(name string, h http.Handler) http.Handler) {
	coachRouter := router.PathPrefix("/api/ai-coach").Subrouter()
	coachRouter.Handle("/aromi-chat", wrapAI("coach-chat", http.HandlerFunc(handler.HandleChat))).Methods("POST", "OPTIONS").Name("coach-chat")
	coachRouter.Handle("/adjust-plan", wrapAI("coach-adjust-plan", http.HandlerFunc(handler.HandleAdjustPlan))).Methods("POST", "OPTIONS").Name("coach-adjust-plan")
	coachRouter.HandleFunc("/chat-history", handler.HandleGetHistory).Methods("GET", "OPTIONS").Name("coach-history")
	coachRouter.HandleFunc("/chat-history", handler.HandleClearHistory).Methods("DELETE", "OPTIONS").Name("coach-history-clear")
}

func writeError(w http.ResponseWriter, err error, logMsg string) {
	if vErr, ok := pkg.AsValidationError(err); ok {
		http.Error(w, vErr.Error(), http.StatusBadRequest)
		return
	}
	switch {
	case errors.Is(err, pkg.ErrInvalidContentType):
		http.Error(w, "invalid content type", http.StatusBadRequest)
	case errors.Is(err, users.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", logMsg, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (handler *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.chat")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req chatRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		if errors.Is(err, pkg.ErrInvalidContentType) {
			writeError(w, err, "coach chat")
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	reply, err := handler.service.Chat(ctx, userID, req.Message, req.UserStatus)
	if err != nil {
		writeError(w, err, "coach chat")
		return
	}

	pkg.WriteJSONOK(w, reply)
}

func (handler *Handler) HandleAdjustPlan(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.adjustPlan")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var req adjustPlanRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		if errors.Is(err, pkg.ErrInvalidContentType) {
			writeError(w, err, "adjust plan")
			return
		}
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	adjusted, err := handler.service.AdjustPlan(ctx, userID, req.Reason, req.DurationDays, req.CurrentPlan)
	if err != nil {
		writeError(w, err, "adjust plan")
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"adjusted_plan": adjusted,
	})
}

func (handler *Handler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.history")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	messages, err := handler.service.History(ctx, userID)
	if err != nil {
		writeError(w, err, "get chat history")
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"messages": messages,
	})
}

func (handler *Handler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.coach.clearHistory")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := handler.service.ClearHistory(ctx, userID); err != nil {
		writeError(w, err, "clear chat history")
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"message": "Chat history cleared",
	})
}
