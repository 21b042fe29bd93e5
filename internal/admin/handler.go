package admin

import (
	"errors"
	"net/http"
	"strconv"

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

func (handler *Handler) SetupRoutes(router *mux.Router) {
	adminRouter := router.PathPrefix("/api/admin").Subrouter()
	adminRouter.HandleFunc("/stats", handler.HandleStats).Methods("GET", "OPTIONS").Name("admin-stats")
	adminRouter.HandleFunc("/users", handler.HandleUsers).Methods("GET", "OPTIONS").Name("admin-users")
}

func writeError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case errors.Is(err, ErrAdminRequired):
		http.Error(w, "Admin access required", http.StatusForbidden)
	case errors.Is(err, users.ErrUserNotFound):
		http.Error(w, "not authenticated", http.StatusUnauthorized)
	default:
		log.Errorf("%s: %s", logMsg, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.admin.stats")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	stats, err := handler.service.Stats(ctx, userID)
	if err != nil {
		writeError(w, err, "admin stats")
		return
	}

	pkg.WriteJSONOK(w, stats)
}

func (handler *Handler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.admin.users")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var limit, offset int
	var err error
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err = strconv.Atoi(limitStr); err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err = strconv.Atoi(offsetStr); err != nil {
			http.Error(w, "invalid offset", http.StatusBadRequest)
			return
		}
	}

	list, err := handler.service.Users(ctx, userID, limit, offset)
	if err != nil {
		writeError(w, err, "admin list users")
		return
	}

	pkg.WriteJSONOK(w, list)
}
