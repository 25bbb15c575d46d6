package agent

import (
	"fmt"
	"time"

	"github.com/ilkoid/agentcore/pkg/debug"
	"github.com/ilkoid/agentcore/pkg/llm"
	"github.com/ilkoid/agentcore/pkg/tools"
)

// Дефолты цикла.
const (
	// DefaultMaxTurns — максимальное число ходов на один запуск.
	DefaultMaxTurns = 10

	// DefaultToolTimeout — защитный таймаут одного вызова инструмента.
	DefaultToolTimeout = 30 * time.Second

	// DefaultMaxToolOutput — лимит символов вывода инструмента;
	// превышение обрезается с маркером.
	DefaultMaxToolOutput = 16000
)

// StopToken — маркер завершения задачи в тексте ответа модели.
// То же семейство маркеров, что и у протокола вызова.
const StopToken = "<<done>>"

// Config конфигурация для создания Orchestrator.
type Config struct {
	// Provider — провайдер языковой модели (обязательный)
	Provider llm.Provider

	// Registry — реестр инструментов (обязательный)
	Registry *tools.Registry

	// MaxTurns — бюджет ходов, <=0 — DefaultMaxTurns
	MaxTurns int

	// SystemPrompt — преамбула агента. Runtime добавляет к ней
	// описание протокола вызова и определения инструментов.
	SystemPrompt string

	// Autonomous — выполнять вызовы инструментов без подтверждения.
	// Выключено: первый же ход с вызовами возвращает
	// StatusAwaitingConfirmation, ничего не исполняя.
	Autonomous bool

	// ToolTimeout — per-call таймаут, <=0 — DefaultToolTimeout
	ToolTimeout time.Duration

	// MaxToolOutput — лимит символов вывода инструмента, <=0 — дефолт
	MaxToolOutput int

	// WorkDir — рабочая директория запуска, передаётся инструментам
	// через контекст. Пустая — текущая директория.
	WorkDir string

	// ModelName — имя модели для трейса (опционально)
	ModelName string

	// Recorder — запись debug-трейса (опционально)
	Recorder *debug.Recorder
}

// validate проверяет обязательные поля и проставляет дефолты.
func (c *Config) validate() error {
	if c.Provider == nil {
		return fmt.Errorf("cfg.Provider is required")
	}
	if c.Registry == nil {
		return fmt.Errorf("cfg.Registry is required")
	}

	if c.MaxTurns <= 0 {
		c.MaxTurns = DefaultMaxTurns
	}
	if c.ToolTimeout <= 0 {
		c.ToolTimeout = DefaultToolTimeout
	}
	if c.MaxToolOutput <= 0 {
		c.MaxToolOutput = DefaultMaxToolOutput
	}
	if c.SystemPrompt == "" {
		c.SystemPrompt = defaultSystemPrompt
	}
	return nil
}

// defaultSystemPrompt — преамбула по умолчанию.
const defaultSystemPrompt = `Ты — ассистент, решающий задачи пользователя с помощью инструментов.
Действуй пошагово: вызывай инструменты, анализируй результаты, продолжай.`
