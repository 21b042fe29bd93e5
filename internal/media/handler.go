package media

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/yash81300/arogyamitra/internal/auth"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
	"github.com/yash81300/arogyamitra/internal/users"
	"github.com/yash81300/arogyamitra/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=media_test

type videoFinder interface {
	ExerciseVideos(ctx context.Context, exerciseName string) ([]Video, error)
	RecipeVideos(ctx context.Context, mealName string) ([]Video, error)
}

type recipeFinder interface {
	Recipes(ctx context.Context, diet, mealType string) (json.RawMessage, error)
}

type userGetter interface {
	Get(ctx context.Context, id int64) (*users.User, error)
}

// Handler serves exercise and recipe media. Failing upstreams give empty
// results rather than errors.
type Handler struct {
	videos  videoFinder
	recipes recipeFinder
	users   userGetter
}

func NewHandler(videos videoFinder, recipes recipeFinder, users userGetter) *Handler {
	return &Handler{
		videos:  videos,
		recipes: recipes,
		users:   users,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/workouts/videos/{exercise}", handler.HandleExerciseVideos).Methods("GET", "OPTIONS").Name("workout-videos")
	router.HandleFunc("/api/nutrition/videos/{meal}", handler.HandleMealVideos).Methods("GET", "OPTIONS").Name("nutrition-videos")
	router.HandleFunc("/api/nutrition/recipes", handler.HandleRecipes).Methods("GET", "OPTIONS").Name("nutrition-recipes")
}

func (handler *Handler) HandleExerciseVideos(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.media.exerciseVideos")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	exercise := strings.TrimSpace(mux.Vars(r)["exercise"])
	if exercise == "" {
		http.Error(w, "exercise name missing", http.StatusBadRequest)
		return
	}

	videos, err := handler.videos.ExerciseVideos(ctx, exercise)
	if err != nil {
		log.Warnf("find videos for exercise [%s]: %s", exercise, err)
		videos = []Video{}
	}

	pkg.WriteJSONOK(w, map[string]any{
		"videos": videos,
	})
}

func (handler *Handler) HandleMealVideos(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.media.mealVideos")
	defer span.End()

	if _, ok := auth.UserIDFromContext(ctx); !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	meal := strings.TrimSpace(mux.Vars(r)["meal"])
	if meal == "" {
		http.Error(w, "meal name missing", http.StatusBadRequest)
		return
	}

	videos, err := handler.videos.RecipeVideos(ctx, meal)
	if err != nil {
		log.Warnf("find videos for meal [%s]: %s", meal, err)
		videos = []Video{}
	}

	pkg.WriteJSONOK(w, map[string]any{
		"videos": videos,
	})
}

func (handler *Handler) HandleRecipes(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.media.recipes")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	u, err := handler.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get user %d for recipes: %s", userID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	diet := u.DietPreference
	if diet == "" {
		diet = "vegetarian"
	}

	recipes, err := handler.recipes.Recipes(ctx, diet, r.URL.Query().Get("meal_type"))
	if err != nil {
		log.Warnf("find recipes for user %d: %s", userID, err)
		recipes = json.RawMessage("[]")
	}

	pkg.WriteJSONOK(w, map[string]any{
		"recipes": recipes,
	})
}
