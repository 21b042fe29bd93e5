package media

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
)

const (
	DefaultSpoonacularURL = "https://api.spoonacular.com"
	DefaultMealType       = "main course"

	recipeMaxCalories = 500
	recipesPerSearch  = 5
)

// RecipeFinder looks up recipes on Spoonacular. Results are passed through
// as Spoonacular returns them.
type RecipeFinder struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      *freecache.Cache
}

func NewRecipeFinder(baseURL, apiKey string, httpClient *http.Client) *RecipeFinder {
	if baseURL == "" {
		baseURL = DefaultSpoonacularURL
	}
	if apiKey == "" {
		log.Warnln("spoonacular api key not set, recipe search disabled")
	}
	return &RecipeFinder{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		cache:      freecache.NewCache(10 * megabyte),
	}
}

// Recipes finds recipes for a diet like "vegetarian" or "gluten_free".
func (f *RecipeFinder) Recipes(ctx context.Context, diet, mealType string) (_ json.RawMessage, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "media.recipes.search")
	defer tracing.EndSpanWithErrCheck(span, &err)

	if f.apiKey == "" {
		return json.RawMessage("[]"), nil
	}
	if mealType == "" {
		mealType = DefaultMealType
	}
	diet = strings.ReplaceAll(diet, "_", "-")

	cacheKey := []byte("recipes::" + diet + "::" + mealType)
	if cached, err := f.cache.Get(cacheKey); err == nil {
		return cached, nil
	}

	params := url.Values{}
	params.Set("apiKey", f.apiKey)
	params.Set("diet", diet)
	params.Set("maxCalories", strconv.Itoa(recipeMaxCalories))
	params.Set("type", mealType)
	params.Set("number", strconv.Itoa(recipesPerSearch))
	params.Set("addRecipeInformation", "true")
	params.Set("addRecipeNutrition", "true")

	req, err := http.NewRequestWithContext(ctx, "GET", f.baseURL+"/recipes/complexSearch?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read spoonacular response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("spoonacular responded %d: %s", resp.StatusCode, gjson.GetBytes(respBytes, "message").String())
	}

	results := gjson.GetBytes(respBytes, "results")
	if !results.IsArray() {
		return nil, fmt.Errorf("spoonacular response has no results")
	}

	raw := []byte(results.Raw)
	if err := f.cache.Set(cacheKey, raw, cacheExpire); err != nil {
		log.Errorf("cache recipes for %s/%s: %s", diet, mealType, err)
	}
	return raw, nil
}
