package calendar

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/auth"
	"github.com/yash81300/arogyamitra/internal/plans"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/internal/users"
	"github.com/yash81300/arogyamitra/pkg"
)

// CallbackPaths are reached by Google without a user token.
var CallbackPaths = []string{
	"/api/calendar/callback",
	"/api/auth/google/callback",
}

type Handler struct {
	service     *Service
	frontendURL string
}

func NewHandler(service *Service, frontendURL string) *Handler {
	return &Handler{
		service:     service,
		frontendURL: strings.TrimSuffix(frontendURL, "/"),
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	calendarRouter := router.PathPrefix("/api/calendar").Subrouter()
	calendarRouter.HandleFunc("/authorize", handler.HandleAuthorize).Methods("GET", "OPTIONS").Name("calendar-authorize")
	calendarRouter.HandleFunc("/callback", handler.HandleCallback).Methods("GET").Name("calendar-callback")
	calendarRouter.HandleFunc("/status", handler.HandleStatus).Methods("GET", "OPTIONS").Name("calendar-status")
	calendarRouter.HandleFunc("/disconnect", handler.HandleDisconnect).Methods("DELETE", "OPTIONS").Name("calendar-disconnect")
	calendarRouter.HandleFunc("/sync-workout", handler.HandleSyncWorkout).Methods("POST", "OPTIONS").Name("calendar-sync-workout")
	calendarRouter.HandleFunc("/sync-nutrition", handler.HandleSyncNutrition).Methods("POST", "OPTIONS").Name("calendar-sync-nutrition")

	router.HandleFunc("/api/auth/google/callback", handler.HandleCallback).Methods("GET").Name("google-oauth-callback")
}

func writeError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrNotConfigured):
		http.Error(w, "Google Calendar not configured", http.StatusBadRequest)
	case errors.Is(err, ErrNotConnected):
		http.Error(w, "Google Calendar not connected", http.StatusBadRequest)
	case errors.Is(err, plans.ErrNoActivePlan):
		http.Error(w, "no active plan found", http.StatusNotFound)
	case errors.Is(err, users.ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", logMsg, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (handler *Handler) HandleAuthorize(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.authorize")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	authURL, err := handler.service.AuthURL(ctx, userID)
	if err != nil {
		writeError(w, err, "calendar authorize")
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"auth_url": authURL,
	})
}

// HandleCallback always sends the browser back to the profile page of the
// frontend, telling it whether the connection worked.
func (handler *Handler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.callback")
	defer span.End()

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	result := "connected"
	if code == "" || state == "" {
		log.Warnf("calendar callback without code or state: %s", r.URL.Query().Get("error"))
		result = "error"
	} else if userID, err := handler.service.Connect(ctx, code, state); err != nil {
		log.Errorf("calendar callback for user %d: %s", userID, err)
		result = "error"
	}

	http.Redirect(w, r, handler.frontendURL+"/profile?calendar="+result, http.StatusFound)
}

func (handler *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.status")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	connected, err := handler.service.Connected(ctx, userID)
	if err != nil {
		writeError(w, err, "calendar status")
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"connected": connected,
	})
}

func (handler *Handler) HandleDisconnect(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.disconnect")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := handler.service.Disconnect(ctx, userID); err != nil {
		writeError(w, err, "calendar disconnect")
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"message": "Google Calendar disconnected",
	})
}

func (handler *Handler) HandleSyncWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.syncWorkout")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	res, err := handler.service.SyncWorkout(ctx, userID)
	if err != nil {
		writeError(w, err, "calendar sync workout")
		return
	}

	pkg.WriteJSONOK(w, res)
}

func (handler *Handler) HandleSyncNutrition(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.calendar.syncNutrition")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	res, err := handler.service.SyncNutrition(ctx, userID)
	if err != nil {
		writeError(w, err, "calendar sync nutrition")
		return
	}

	pkg.WriteJSONOK(w, res)
}
