// Package anthropic реализует адаптер LLM провайдера для Anthropic Messages API.
//
// SDK у нас нет — API достаточно простой, клиент ходит по HTTP напрямую.
// Работает только через интерфейс llm.Provider.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ilkoid/agentcore/pkg/config"
	"github.com/ilkoid/agentcore/pkg/llm"
	"github.com/ilkoid/agentcore/pkg/utils"
)

// Client реализует интерфейс llm.Provider для Anthropic Messages API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
}

// NewClient создает Anthropic клиент на основе конфигурации модели.
//
// Отсутствие API ключа — ошибка конфигурации, возвращается
// до любого сетевого вызова.
func NewClient(modelDef config.ModelDef) (*Client, error) {
	if modelDef.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w", llm.ErrMissingAPIKey)
	}
	if modelDef.ModelName == "" {
		return nil, fmt.Errorf("anthropic: model name is required")
	}

	baseURL := strings.TrimRight(modelDef.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxTokens := modelDef.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens // max_tokens у этого API обязателен
	}

	return &Client{
		httpClient:  &http.Client{Timeout: modelDef.TimeoutDuration()},
		baseURL:     baseURL,
		apiKey:      modelDef.APIKey,
		model:       modelDef.ModelName,
		maxTokens:   maxTokens,
		temperature: modelDef.Temperature,
	}, nil
}

// Complete выполняет запрос к Messages API и возвращает ответ модели.
//
// Маппинг диалога: бэкенд поддерживает единственный system-слот,
// поэтому все system-сообщения сворачиваются в поле system,
// остальные ходы передаются как есть.
// Done = stop_reason "end_turn" или "stop_sequence".
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (llm.Response, error) {
	startTime := time.Now()

	var system []string
	turns := make([]messageParam, 0, len(messages))
	for _, m := range messages {
		if m.Role == llm.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		turns = append(turns, messageParam{Role: m.Role, Content: m.Content})
	}

	reqBody := messageRequest{
		Model:     c.model,
		Messages:  turns,
		System:    strings.Join(system, "\n\n"),
		MaxTokens: c.maxTokens,
	}
	if c.temperature > 0 {
		reqBody.Temperature = &c.temperature
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Response{}, &llm.ProviderError{Backend: "anthropic", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(payload))
	if err != nil {
		return llm.Response{}, &llm.ProviderError{Backend: "anthropic", Err: err}
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Anthropic-Version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		utils.Error("LLM API request failed",
			"backend", "anthropic",
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Response{}, &llm.ProviderError{Backend: "anthropic", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return llm.Response{}, &llm.ProviderError{Backend: "anthropic", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return llm.Response{}, &llm.ProviderError{
				Backend: "anthropic",
				Err:     fmt.Errorf("api error (%d, %s): %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message),
			}
		}
		return llm.Response{}, &llm.ProviderError{
			Backend: "anthropic",
			Err:     fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
	}

	var msg messageResponse
	if err := json.Unmarshal(body, &msg); err != nil {
		return llm.Response{}, &llm.ProviderError{
			Backend: "anthropic",
			Err:     fmt.Errorf("malformed response body: %w", err),
		}
	}

	// Склеиваем text-блоки ответа
	var content strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	done := msg.StopReason == "end_turn" || msg.StopReason == "stop_sequence"

	utils.Info("LLM response received",
		"backend", "anthropic",
		"model", c.model,
		"content_length", content.Len(),
		"done", done,
		"duration_ms", time.Since(startTime).Milliseconds())

	return llm.Response{Content: content.String(), Done: done}, nil
}

// Ensure Client implements llm.Provider
var _ llm.Provider = (*Client)(nil)
