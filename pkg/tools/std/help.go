// Package std предоставляет стандартные инструменты для AI агента.
//
// Это референсный набор, закрывающий семейства операций прикладных
// агентов (файлы, HTTP, отчёты). Runtime к нему не привязан:
// инструменты регистрируются через тот же tools.Registry,
// что и любые пользовательские.
package std

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ilkoid/agentcore/pkg/tools"
)

// HelpTool — справка по зарегистрированным инструментам.
//
// Позволяет модели уточнить список доступных операций и их параметры
// не полагаясь на системный промпт.
type HelpTool struct {
	registry *tools.Registry
}

// NewHelpTool создает инструмент справки поверх реестра.
func NewHelpTool(registry *tools.Registry) *HelpTool {
	return &HelpTool{registry: registry}
}

// Definition возвращает определение инструмента.
func (t *HelpTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "help",
		Description: "Список доступных инструментов с описаниями и схемами аргументов",
		Parameters: tools.JSONSchema{
			"type":       "object",
			"properties": map[string]any{},
		},
	}
}

// Execute возвращает человекочитаемый список инструментов.
func (t *HelpTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var b strings.Builder
	for _, def := range t.registry.Definitions() {
		fmt.Fprintf(&b, "%s — %s\n", def.Name, def.Description)

		schema, err := json.Marshal(def.Parameters)
		if err != nil {
			continue
		}
		fmt.Fprintf(&b, "  аргументы: %s\n", schema)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}
