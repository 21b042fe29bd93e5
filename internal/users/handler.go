package users

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/auth"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/pkg"
)

const maxPhotoSize = 5 << 20

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

type loginRequest struct {
	Login    string `json:"login"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes registers the account routes. The login and register handlers
// are passed in already wrapped, so the caller decides on rate limiting.
func (handler *Handler) SetupRoutes(router *mux.Router, wrapPublic func(name string, h http.Handler) http.Handler) {
	authRouter := router.PathPrefix("/api/auth").Subrouter()
	authRouter.Handle("/register", wrapPublic("register", http.HandlerFunc(handler.HandleRegister))).Methods("POST", "OPTIONS").Name("register")
	authRouter.Handle("/login", wrapPublic("login", http.HandlerFunc(handler.HandleLogin))).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/logout", handler.HandleLogout).Methods("POST", "OPTIONS").Name("logout")
	authRouter.HandleFunc("/me", handler.HandleMe).Methods("GET", "OPTIONS").Name("me")
	authRouter.HandleFunc("/me", handler.HandleUpdateMe).Methods("PUT", "OPTIONS").Name("update-me")
	authRouter.HandleFunc("/upload-photo", handler.HandleUploadPhoto).Methods("POST", "OPTIONS").Name("upload-photo")
	authRouter.HandleFunc("/photo", handler.HandleDeletePhoto).Methods("DELETE", "OPTIONS").Name("delete-photo")

	usersRouter := router.PathPrefix("/api/users").Subrouter()
	usersRouter.HandleFunc("", handler.HandleList).Methods("GET", "OPTIONS").Name("users-list")
	usersRouter.HandleFunc("/profile", handler.HandleMe).Methods("GET", "OPTIONS").Name("users-profile")
	usersRouter.HandleFunc("/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("users-delete")
}

func writeError(w http.ResponseWriter, err error, logMsg string) {
	if vErr, ok := pkg.AsValidationError(err); ok {
		http.Error(w, vErr.Error(), http.StatusBadRequest)
		return
	}

	switch {
	case errors.Is(err, pkg.ErrInvalidContentType):
		http.Error(w, "invalid content type", http.StatusBadRequest)
	case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrIncorrectLogin):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrUserNotFound):
		http.Error(w, "user not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "not enough permissions", http.StatusForbidden)
	case errors.Is(err, ErrPhotoStoreDisabled):
		http.Error(w, "photo upload not available", http.StatusServiceUnavailable)
	default:
		log.Errorf("%s: %s", logMsg, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func (handler *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.register")
	defer span.End()

	var req RegisterRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		log.Tracef("register, decode body: %s", err)
		writeError(w, pkg.NewValidationError("", "invalid request body"), "register")
		return
	}

	resp, err := handler.service.Register(ctx, req)
	if err != nil {
		writeError(w, err, "register user")
		return
	}

	pkg.WriteJSON(w, http.StatusCreated, resp)
}

func (handler *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.login")
	defer span.End()

	var req loginRequest
	if err := pkg.DecodeJSONBody(r, &req); err != nil {
		writeError(w, pkg.NewValidationError("", "invalid request body"), "login")
		return
	}

	login := req.Login
	if login == "" {
		login = req.Username
	}
	if login == "" {
		login = req.Email
	}

	resp, err := handler.service.Login(ctx, strings.TrimSpace(login), req.Password)
	if err != nil {
		writeError(w, err, "login")
		return
	}

	pkg.WriteJSONOK(w, resp)
}

func (handler *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.logout")
	defer span.End()

	_, token, _ := strings.Cut(r.Header.Get("Authorization"), " ")
	if err := handler.service.Logout(ctx, strings.TrimSpace(token)); err != nil {
		writeError(w, err, "logout")
		return
	}

	pkg.WriteJSONOK(w, map[string]string{"message": "logged out"})
}

func (handler *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.me")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	u, err := handler.service.Get(ctx, userID)
	if err != nil {
		writeError(w, err, "get current user")
		return
	}

	pkg.WriteJSONOK(w, u)
}

func (handler *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.updateMe")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	var update ProfileUpdate
	if err := pkg.DecodeJSONBody(r, &update); err != nil {
		writeError(w, pkg.NewValidationError("", "invalid request body"), "update profile")
		return
	}

	u, err := handler.service.UpdateProfile(ctx, userID, update)
	if err != nil {
		writeError(w, err, "update profile")
		return
	}

	pkg.WriteJSONOK(w, u)
}

func (handler *Handler) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.uploadPhoto")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+(1<<20))
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		http.Error(w, "invalid multipart form or file too large", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file missing", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !allowedPhotoTypes[header.Header.Get("Content-Type")] {
		http.Error(w, "only jpeg, png, webp and gif images are allowed", http.StatusBadRequest)
		return
	}
	if header.Size > maxPhotoSize {
		http.Error(w, "file too large, max 5MB", http.StatusBadRequest)
		return
	}

	u, err := handler.service.UploadPhoto(ctx, userID, file)
	if err != nil {
		writeError(w, err, "upload photo")
		return
	}

	pkg.WriteJSONOK(w, map[string]any{
		"profile_photo_url": u.ProfilePhotoURL,
		"user":              u,
	})
}

func (handler *Handler) HandleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.deletePhoto")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	if err := handler.service.DeletePhoto(ctx, userID); err != nil {
		writeError(w, err, "delete photo")
		return
	}

	pkg.WriteJSONOK(w, map[string]string{"message": "photo removed"})
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.list")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	limit, offset := 100, 0
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 500 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("skip")); err == nil && v >= 0 {
		offset = v
	}

	list, err := handler.service.List(ctx, userID, limit, offset)
	if err != nil {
		writeError(w, err, "list users")
		return
	}

	pkg.WriteJSONOK(w, list)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.users.delete")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	targetID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	if err := handler.service.Delete(ctx, userID, targetID); err != nil {
		writeError(w, err, "delete user")
		return
	}

	pkg.WriteJSONOK(w, map[string]string{"message": "user deleted"})
}
