// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Один и тот же клиент обслуживает OpenAI, DeepSeek, Zai и локальные
// OpenAI-совместимые серверы (через BaseURL). Работает только через
// интерфейс llm.Provider.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/ilkoid/agentcore/pkg/config"
	"github.com/ilkoid/agentcore/pkg/llm"
	"github.com/ilkoid/agentcore/pkg/utils"
)

// Client реализует интерфейс llm.Provider для OpenAI-совместимых API.
type Client struct {
	api         *openai.Client
	backend     string // Имя бэкенда для ошибок и логов
	model       string
	maxTokens   int
	temperature float64
}

// NewClient создает клиент на основе конфигурации модели.
//
// Отсутствие API ключа — ошибка конфигурации, она возвращается
// ДО какого-либо сетевого вызова. Все настройки из конфигурации,
// никакого хардкода.
func NewClient(modelDef config.ModelDef, backend string) (*Client, error) {
	if modelDef.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", backend, llm.ErrMissingAPIKey)
	}
	if modelDef.ModelName == "" {
		return nil, fmt.Errorf("%s: model name is required", backend)
	}

	// Поддержка custom BaseURL для non-OpenAI провайдеров
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}
	cfg.HTTPClient = &http.Client{Timeout: modelDef.TimeoutDuration()}

	return &Client{
		api:         openai.NewClientWithConfig(cfg),
		backend:     backend,
		model:       modelDef.ModelName,
		maxTokens:   modelDef.MaxTokens,
		temperature: modelDef.Temperature,
	}, nil
}

// Complete выполняет запрос к API и возвращает ответ модели.
//
// Алгоритм:
//  1. Конвертирует внутренние сообщения в формат OpenAI SDK
//  2. Вызывает API
//  3. Маппит ответ обратно: Done = только finish_reason "stop"
//
// Все ошибки транспорта и некорректные тела оборачиваются в llm.ProviderError.
func (c *Client) Complete(ctx context.Context, messages []llm.Message) (llm.Response, error) {
	startTime := time.Now()

	utils.Debug("LLM request started",
		"backend", c.backend,
		"model", c.model,
		"messages_count", len(messages))

	// 1. Конвертируем наши сообщения в формат OpenAI SDK.
	// System-роль у этого семейства нативная, пробрасываем как есть.
	openaiMsgs := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		openaiMsgs[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: openaiMsgs,
	}
	if c.maxTokens > 0 {
		req.MaxTokens = c.maxTokens
	}
	if c.temperature > 0 {
		req.Temperature = float32(c.temperature)
	}

	// 2. Вызываем API
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		utils.Error("LLM API request failed",
			"backend", c.backend,
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds())
		return llm.Response{}, &llm.ProviderError{Backend: c.backend, Err: err}
	}

	// Проверяем что есть хотя бы один выбор
	if len(resp.Choices) == 0 {
		return llm.Response{}, &llm.ProviderError{
			Backend: c.backend,
			Err:     fmt.Errorf("no choices in response"),
		}
	}

	// 3. Маппим ответ в наш формат
	// Done — только явный finish_reason "stop". Всё остальное (length,
	// null, пустое значение от небрежного сервера, оборванный ответ)
	// ходом не завершается: финал определит стоп-маркер или бюджет ходов.
	choice := resp.Choices[0]
	done := choice.FinishReason == openai.FinishReasonStop

	utils.Info("LLM response received",
		"backend", c.backend,
		"model", c.model,
		"content_length", len(choice.Message.Content),
		"done", done,
		"duration_ms", time.Since(startTime).Milliseconds())

	return llm.Response{Content: choice.Message.Content, Done: done}, nil
}

// Ensure Client implements llm.Provider
var _ llm.Provider = (*Client)(nil)
