// Package agent реализует оркестрацию диалога LLM с инструментами.
//
// Orchestrator ведёт ограниченный по ходам цикл:
//  1. Запрос к провайдеру с текущей историей
//  2. Скан ответа на вызовы инструментов
//  3. Выполнение вызовов через sandbox (последовательно, с таймаутами)
//  4. Результаты — новым user-сообщением, следующий ход
//
// Завершение: done-флаг провайдера или стоп-маркер в ответе без
// вызовов — успех; исчерпание бюджета ходов — MaxTurnsError.
// История диалога принадлежит запуску и не переживает его.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ilkoid/agentcore/pkg/llm"
	"github.com/ilkoid/agentcore/pkg/toolcall"
	"github.com/ilkoid/agentcore/pkg/tools"
	"github.com/ilkoid/agentcore/pkg/utils"
)

// Orchestrator — машина состояний одного диалога с инструментами.
//
// Экземпляр можно переиспользовать для последовательных запусков;
// mu сериализует конкурентные Run — история каждого запуска
// принадлежит только ему.
type Orchestrator struct {
	cfg Config

	// mu защищает одновременные вызовы Run
	mu sync.Mutex
}

// New создаёт новый Orchestrator с заданной конфигурацией.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Orchestrator{cfg: cfg}, nil
}

// Run выполняет задачу и возвращает итог запуска.
//
// Result.History заполнен всегда — и при ошибке тоже: частичные
// результаты инструментов остаются доступными для диагностики.
// Ошибка провайдера возвращается как есть (запуск безнадёжен),
// исчерпание бюджета — как MaxTurnsError.
func (o *Orchestrator) Run(ctx context.Context, task string) (Result, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if strings.TrimSpace(task) == "" {
		return Result{}, fmt.Errorf("task is required")
	}

	// История: ровно одно system-сообщение, вставляется один раз
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: o.systemPrompt()},
		{Role: llm.RoleUser, Content: task},
	}

	rec := o.cfg.Recorder
	rec.StartRun(task, o.cfg.ModelName)

	for turn := 0; turn < o.cfg.MaxTurns; turn++ {
		resp, err := o.cfg.Provider.Complete(ctx, history)
		if err != nil {
			// Без провайдера прогресс невозможен — запуск завершается
			utils.Error("provider failed, aborting run", "turn", turn, "error", err)
			rec.Finish(string(StatusFailed), "")
			return Result{Status: StatusFailed, Turns: turn, History: history}, err
		}

		history = append(history, llm.Message{Role: llm.RoleAssistant, Content: resp.Content})
		rec.StartTurn(turn, resp.Content)

		// Пустой ответ — холостой ход, но бюджет расходует
		if strings.TrimSpace(resp.Content) == "" {
			utils.Warn("empty assistant response", "turn", turn)
			continue
		}

		calls := toolcall.Scan(resp.Content)
		if len(calls) > 0 {
			// Вызовы в приоритете над стоп-маркером: модель может
			// запросить финальное действие перед завершением
			if !o.cfg.Autonomous {
				utils.Info("tool calls found, awaiting confirmation",
					"turn", turn, "calls", len(calls))
				rec.Finish(string(StatusAwaitingConfirmation), resp.Content)
				return Result{
					Text:    resp.Content,
					Status:  StatusAwaitingConfirmation,
					Turns:   turn + 1,
					History: history,
				}, nil
			}

			results := o.executeCalls(ctx, calls)
			history = append(history, llm.Message{
				Role:    llm.RoleUser,
				Content: formatResults(results),
			})
			continue
		}

		// Вызовов нет: проверяем условия завершения
		if resp.Done || strings.Contains(resp.Content, StopToken) {
			final := strings.TrimSpace(strings.ReplaceAll(resp.Content, StopToken, ""))
			utils.Info("run completed", "turns", turn+1)
			rec.Finish(string(StatusDone), final)
			return Result{
				Text:    final,
				Status:  StatusDone,
				Turns:   turn + 1,
				History: history,
			}, nil
		}
	}

	// Бюджет исчерпан без завершения
	utils.Warn("run exceeded turn budget", "max_turns", o.cfg.MaxTurns)
	rec.Finish(string(StatusMaxTurns), "")
	return Result{
		Status:  StatusMaxTurns,
		Turns:   o.cfg.MaxTurns,
		History: history,
	}, &MaxTurnsError{Turns: o.cfg.MaxTurns}
}

// systemPrompt собирает системный промпт: преамбула, протокол вызова,
// определения инструментов из реестра.
func (o *Orchestrator) systemPrompt() string {
	var b strings.Builder

	b.WriteString(o.cfg.SystemPrompt)
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Чтобы вызвать инструмент, напиши в ответе: %sИМЯ {АРГУМЕНТЫ_JSON}%s\n",
		toolcall.StartMarker, toolcall.EndMarker)
	b.WriteString("В одном ответе допускается несколько вызовов, они выполняются по порядку.\n")
	b.WriteString("Результаты придут следующим сообщением, по строке на вызов.\n")
	fmt.Fprintf(&b, "Когда задача полностью решена, добавь в ответ маркер %s\n", StopToken)

	defs := o.cfg.Registry.Definitions()
	if len(defs) > 0 {
		b.WriteString("\nДоступные инструменты:\n")
		for _, def := range defs {
			fmt.Fprintf(&b, "- %s: %s\n", def.Name, def.Description)
			if schema := marshalSchema(def.Parameters); schema != "" {
				fmt.Fprintf(&b, "  аргументы: %s\n", schema)
			}
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

// marshalSchema сериализует JSON Schema аргументов для промпта.
func marshalSchema(schema tools.JSONSchema) string {
	if len(schema) == 0 {
		return ""
	}
	data, err := json.Marshal(schema)
	if err != nil {
		return ""
	}
	return string(data)
}

// formatResults сериализует результаты батча в одно user-сообщение.
//
// Формат: "> имя: вывод" либо "> имя: ERROR: сообщение", порядок —
// порядок вызовов как они были отсканированы. Переводы строк внутри
// вывода сдвигаются отступом: строка с "> " всегда означает границу
// следующего результата.
func formatResults(results []ToolResult) string {
	var b strings.Builder
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(&b, "> %s: ERROR: %s\n", r.Name, indentContinuation(r.Err.Error()))
			continue
		}
		fmt.Fprintf(&b, "> %s: %s\n", r.Name, indentContinuation(r.Output))
	}
	return strings.TrimRight(b.String(), "\n")
}

// indentContinuation сдвигает все строки многострочного текста
// кроме первой.
func indentContinuation(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
