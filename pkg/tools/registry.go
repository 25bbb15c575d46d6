// Реестр для хранения и поиска инструментов.
//
// Никакого процесс-глобального состояния: реестр — обычное значение,
// его создают явно и передают в оркестратор. Независимые запуски
// (и тесты) держат свои независимые реестры.
package tools

import (
	"fmt"
	"sort"
	"sync"
)

// Registry — потокобезопасное хранилище инструментов.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry создает новый пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register добавляет инструмент в реестр с валидацией определения.
//
// Возвращает ошибку если определение не валидно или имя уже занято.
func (r *Registry) Register(tool Tool) error {
	def := tool.Definition()
	if err := validateDefinition(def); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[def.Name]; exists {
		return fmt.Errorf("tool '%s' already registered", def.Name)
	}
	r.tools[def.Name] = tool
	return nil
}

// Get ищет инструмент по имени.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool '%s' not found", name)
	}
	return tool, nil
}

// Definitions возвращает определения всех инструментов,
// отсортированные по имени — порядок в системном промпте стабилен.
func (r *Registry) Definitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Len возвращает количество зарегистрированных инструментов.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// validateDefinition проверяет что определение пригодно для системного промпта.
//
// Name обязателен, Parameters должен быть объектной схемой
// (type == "object") — протокол вызова принимает только JSON-объекты.
func validateDefinition(def ToolDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if def.Parameters == nil {
		return fmt.Errorf("tool '%s': parameters cannot be nil", def.Name)
	}

	typeVal, ok := def.Parameters["type"]
	if !ok {
		return fmt.Errorf("tool '%s': parameters must have 'type' field", def.Name)
	}
	typeStr, ok := typeVal.(string)
	if !ok || typeStr != "object" {
		return fmt.Errorf("tool '%s': parameters.type must be 'object', got: %v", def.Name, typeVal)
	}
	return nil
}
