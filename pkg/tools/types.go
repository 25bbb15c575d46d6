// Интерфейс Tool и структуры определений.

package tools

import (
	"context"
	"errors"
)

// JSONSchema представляет JSON Schema объекта аргументов инструмента.
//
// Используется вместо interface{} для типобезопасности. Схемы попадают
// в системный промпт — модель из них узнаёт какие аргументы передавать.
type JSONSchema map[string]any

// ToolDefinition описывает инструмент для LLM.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"` // JSON Schema объекта аргументов
}

// Tool — контракт, который должен реализовать любой инструмент.
//
// Runtime не знает что инструмент делает — файловая система, HTTP,
// shell — только его имя, объект аргументов и строковый результат.
type Tool interface {
	// Definition возвращает описание инструмента для LLM.
	Definition() ToolDefinition

	// Execute выполняет логику инструмента.
	// argsJSON — канонический JSON аргументов после ремонта ("Raw In, String Out").
	// Контекст несёт сигнал отмены (per-call timeout) и рабочую директорию.
	Execute(ctx context.Context, argsJSON string) (string, error)
}

// ErrValidation возвращается инструментом при некорректных
// или отсутствующих обязательных аргументах.
var ErrValidation = errors.New("invalid argument")
