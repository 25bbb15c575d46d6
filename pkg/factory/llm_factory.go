// Package factory создаёт LLM провайдеров по конфигурации модели.
//
// Явный выбор провайдера всегда важнее инференса по имени модели.
package factory

import (
	"fmt"
	"regexp"

	"github.com/ilkoid/agentcore/pkg/config"
	"github.com/ilkoid/agentcore/pkg/llm"
	"github.com/ilkoid/agentcore/pkg/llm/anthropic"
	"github.com/ilkoid/agentcore/pkg/llm/openai"
)

// DefaultLocalBaseURL — дефолтный endpoint локального OpenAI-совместимого
// сервера (ollama, llama.cpp server, LM Studio).
const DefaultLocalBaseURL = "http://localhost:11434/v1"

var (
	// GPT/O-серия → openai
	openaiModelRe = regexp.MustCompile(`(?i)^(gpt-|o[1-9])`)
	// Claude-семейство → anthropic
	anthropicModelRe = regexp.MustCompile(`(?i)claude|sonnet|haiku|opus`)
)

// InferProvider определяет провайдера по имени модели.
//
// Неизвестные имена уходят на локальный бэкенд — так утилита работает
// без облачных ключей.
func InferProvider(modelName string) string {
	switch {
	case openaiModelRe.MatchString(modelName):
		return "openai"
	case anthropicModelRe.MatchString(modelName):
		return "anthropic"
	default:
		return "local"
	}
}

// NewProvider создает провайдера на основе конфигурации модели.
//
// Если modelDef.Provider пуст, провайдер выводится из имени модели
// (InferProvider). Локальный бэкенд не требует ключа — подставляется
// заглушка, локальные серверы её не проверяют.
func NewProvider(modelDef config.ModelDef) (llm.Provider, error) {
	provider := modelDef.Provider
	if provider == "" {
		provider = InferProvider(modelDef.ModelName)
	}

	switch provider {
	case "openai", "deepseek", "zai":
		return openai.NewClient(modelDef, provider)

	case "anthropic":
		return anthropic.NewClient(modelDef)

	case "local":
		if modelDef.BaseURL == "" {
			modelDef.BaseURL = DefaultLocalBaseURL
		}
		if modelDef.APIKey == "" {
			modelDef.APIKey = "local"
		}
		return openai.NewClient(modelDef, "local")

	default:
		return nil, fmt.Errorf("unknown provider type: %s", provider)
	}
}
