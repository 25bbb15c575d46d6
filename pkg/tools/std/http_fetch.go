package std

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/ilkoid/agentcore/pkg/config"
	"github.com/ilkoid/agentcore/pkg/tools"
	"github.com/ilkoid/agentcore/pkg/utils"
)

// HTTPGetTool — GET-запросы к HTTP API (бэкенд аналитики и т.п.).
//
// Исходящие запросы идут через rate limiter — агент в цикле легко
// устраивает self-DDoS, лимит из конфигурации это пресекает.
type HTTPGetTool struct {
	client  *http.Client
	limiter *rate.Limiter
	maxBody int64
}

// NewHTTPGetTool создает инструмент с настройками из конфигурации.
func NewHTTPGetTool(cfg config.HTTPConfig) *HTTPGetTool {
	cfg = cfg.GetDefaults()

	return &HTTPGetTool{
		client:  &http.Client{Timeout: cfg.TimeoutDuration()},
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RateLimit))/60.0, cfg.BurstLimit),
		maxBody: cfg.MaxResponseBytes,
	}
}

// Definition возвращает определение инструмента.
func (t *HTTPGetTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "http_get",
		Description: "Выполняет HTTP GET запрос и возвращает тело ответа",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"url": map[string]any{
					"type":        "string",
					"description": "Полный http(s) URL",
				},
			},
			"required": []string{"url"},
		},
	}
}

// Execute выполняет запрос.
//
// Ожидание слота rate limiter-а подчинено контексту вызова — при
// per-call timeout инструмент не зависнет в очереди.
func (t *HTTPGetTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", fmt.Errorf("%w: %v", tools.ErrValidation, err)
	}
	if args.URL == "" {
		return "", fmt.Errorf("%w: url is required", tools.ErrValidation)
	}

	parsed, err := url.Parse(args.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return "", fmt.Errorf("%w: url must be http(s): %s", tools.ErrValidation, args.URL)
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, args.URL, nil)
	if err != nil {
		return "", err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBody))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	utils.Debug("http_get done",
		"url", args.URL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %s: %s", resp.Status, string(body))
	}
	return string(body), nil
}
