package aiagent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/yash81300/arogyamitra/internal/telemetry/metrics"
	"github.com/yash81300/arogyamitra/internal/telemetry/tracing"
)

const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.3-70b-versatile"

	maxResponseBytes = 4 << 20
)

var (
	ErrNotConfigured = errors.New("ai client not configured")
	ErrNoJSON        = errors.New("no json object in completion")
)

type ChatMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type Params struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	MetricsManager *metrics.Manager
}

// Agent talks to an OpenAI compatible chat completions API. Every public
// method degrades to a static answer when the API is not configured or fails.
type Agent struct {
	apiKey         string
	baseURL        string
	model          string
	httpClient     *http.Client
	metricsManager *metrics.Manager
}

func NewAgent(params Params) *Agent {
	if params.BaseURL == "" {
		params.BaseURL = DefaultBaseURL
	}
	if params.Model == "" {
		params.Model = DefaultModel
	}
	if params.HTTPClient == nil {
		params.HTTPClient = &http.Client{Timeout: time.Minute}
	}
	if params.APIKey == "" {
		log.Errorf("no groq api key set, ai features will use fallback responses")
	}

	return &Agent{
		apiKey:         params.APIKey,
		baseURL:        strings.TrimSuffix(params.BaseURL, "/"),
		model:          params.Model,
		httpClient:     params.HTTPClient,
		metricsManager: params.MetricsManager,
	}
}

func (a *Agent) Enabled() bool {
	return a.apiKey != ""
}

func (a *Agent) fallback(kind string, err error) {
	log.Errorf("ai %s: using fallback: %s", kind, err)
	if a.metricsManager != nil {
		a.metricsManager.CounterAIFallbacks.WithLabelValues(kind).Inc()
	}
}

// complete sends one chat completion and returns the content of the first
// choice.
func (a *Agent) complete(ctx context.Context, kind string, messages []ChatMessage, temperature float64, maxTokens int) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "aiagent.complete."+kind)
	defer tracing.EndSpanWithErrCheck(span, &err)

	if !a.Enabled() {
		return "", ErrNotConfigured
	}

	started := time.Now()
	defer func() {
		if a.metricsManager != nil {
			a.metricsManager.HistogramAIDuration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
		}
	}()

	body, err := json.Marshal(completionRequest{
		Model:       a.model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion status %d: %s", resp.StatusCode, gjson.GetBytes(respBytes, "error.message").String())
	}

	content := gjson.GetBytes(respBytes, "choices.0.message.content")
	if !content.Exists() {
		return "", errors.New("completion response has no content")
	}
	return content.String(), nil
}

// extractJSONObject returns the text from the first '{' to the last '}'.
func extractJSONObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

func (a *Agent) completeJSON(ctx context.Context, kind string, messages []ChatMessage, maxTokens int, v any) error {
	content, err := a.complete(ctx, kind, messages, 0.7, maxTokens)
	if err != nil {
		return err
	}
	obj, err := extractJSONObject(content)
	if err != nil {
		return err
	}
	if !gjson.Valid(obj) {
		return fmt.Errorf("%w: invalid json", ErrNoJSON)
	}
	return json.Unmarshal([]byte(obj), v)
}

func orNotSpecified[T any](v *T) string {
	if v == nil {
		return "Not specified"
	}
	return fmt.Sprint(*v)
}
