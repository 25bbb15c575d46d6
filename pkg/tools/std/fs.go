package std

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilkoid/agentcore/pkg/tools"
)

// Лимит чтения файла: вывод инструмента дополнительно режется sandbox-ом,
// но гигантский файл не должен даже попадать в память целиком.
const maxFileReadBytes = 256 * 1024

// ReadFileTool — чтение текстового файла внутри рабочей директории запуска.
type ReadFileTool struct{}

// NewReadFileTool создает инструмент чтения файлов.
func NewReadFileTool() *ReadFileTool {
	return &ReadFileTool{}
}

// Definition возвращает определение инструмента.
func (t *ReadFileTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "read_file",
		Description: "Читает текстовый файл по пути относительно рабочей директории",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Относительный путь к файлу",
				},
			},
			"required": []string{"path"},
		},
	}
}

// Execute читает файл. Выход за пределы рабочей директории запрещён.
func (t *ReadFileTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", fmt.Errorf("%w: %v", tools.ErrValidation, err)
	}
	if args.Path == "" {
		return "", fmt.Errorf("%w: path is required", tools.ErrValidation)
	}

	full, err := resolveInWorkDir(ctx, args.Path)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("failed to stat '%s': %w", args.Path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("'%s' is a directory, use list_files", args.Path)
	}
	if info.Size() > maxFileReadBytes {
		return "", fmt.Errorf("file '%s' is too large (%d bytes, limit %d)", args.Path, info.Size(), maxFileReadBytes)
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return "", fmt.Errorf("failed to read '%s': %w", args.Path, err)
	}
	return string(data), nil
}

// ListFilesTool — листинг директории внутри рабочей директории запуска.
type ListFilesTool struct{}

// NewListFilesTool создает инструмент листинга.
func NewListFilesTool() *ListFilesTool {
	return &ListFilesTool{}
}

// Definition возвращает определение инструмента.
func (t *ListFilesTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        "list_files",
		Description: "Список файлов директории (по умолчанию — рабочая директория)",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Относительный путь к директории, по умолчанию '.'",
				},
			},
		},
	}
}

// Execute возвращает по строке на запись: имя, размер, маркер директории.
func (t *ListFilesTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", fmt.Errorf("%w: %v", tools.ErrValidation, err)
	}
	if args.Path == "" {
		args.Path = "."
	}

	full, err := resolveInWorkDir(ctx, args.Path)
	if err != nil {
		return "", err
	}

	entries, err := os.ReadDir(full)
	if err != nil {
		return "", fmt.Errorf("failed to list '%s': %w", args.Path, err)
	}

	var b strings.Builder
	for _, e := range entries {
		if e.IsDir() {
			fmt.Fprintf(&b, "%s/\n", e.Name())
			continue
		}
		info, err := e.Info()
		if err != nil {
			fmt.Fprintf(&b, "%s\n", e.Name())
			continue
		}
		fmt.Fprintf(&b, "%s\t%d\n", e.Name(), info.Size())
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// resolveInWorkDir превращает относительный путь в абсолютный
// внутри рабочей директории из контекста. Путь, выбирающийся
// наружу через "..", отклоняется.
func resolveInWorkDir(ctx context.Context, rel string) (string, error) {
	workDir := tools.WorkDir(ctx)

	full := filepath.Clean(filepath.Join(workDir, rel))
	base := filepath.Clean(workDir)

	relPath, err := filepath.Rel(base, full)
	if err != nil || relPath == ".." || strings.HasPrefix(relPath, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: path '%s' escapes working directory", tools.ErrValidation, rel)
	}
	return full, nil
}
