package std

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ilkoid/agentcore/pkg/s3storage"
	"github.com/ilkoid/agentcore/pkg/tools"
)

// SaveReportTool — сохранение готового отчёта в объектное хранилище.
//
// Регистрируется только когда в конфигурации настроен S3.
type SaveReportTool struct {
	storage *s3storage.Client
	prefix  string
}

// NewSaveReportTool создает инструмент поверх S3 клиента.
// prefix — корневой префикс ключей (например, "reports").
func NewSaveReportTool(storage *s3storage.Client, prefix string) *SaveReportTool {
	if prefix == "" {
		prefix = "reports"
	}
	return &SaveReportTool{storage: storage, prefix: prefix}
}

// Definition возвращает определение инструмента.
func (t *SaveReportTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "save_report",
		Description: "Сохраняет текстовый отчёт в объектное хранилище и возвращает его ключ",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"name": map[string]any{
					"type":        "string",
					"description": "Имя файла отчёта, например 'kpi-weekly.md'",
				},
				"content": map[string]any{
					"type":        "string",
					"description": "Полное содержимое отчёта",
				},
			},
			"required": []string{"name", "content"},
		},
	}
}

// Execute загружает отчёт. Ключ получает дату — отчёты за разные дни
// не затирают друг друга.
func (t *SaveReportTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", fmt.Errorf("%w: %v", tools.ErrValidation, err)
	}
	if args.Name == "" || strings.Contains(args.Name, "/") {
		return "", fmt.Errorf("%w: name must be a plain file name", tools.ErrValidation)
	}
	if args.Content == "" {
		return "", fmt.Errorf("%w: content is required", tools.ErrValidation)
	}

	key := path.Join(t.prefix, time.Now().Format("2006-01-02"), args.Name)
	if err := t.storage.Upload(ctx, key, []byte(args.Content), ""); err != nil {
		return "", err
	}

	result, err := json.Marshal(map[string]any{
		"key":  key,
		"size": len(args.Content),
	})
	if err != nil {
		return "", err
	}
	return string(result), nil
}
