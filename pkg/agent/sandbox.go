// Sandbox выполнения инструментов: per-call таймаут, усечение вывода,
// единообразная упаковка ошибок.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ilkoid/agentcore/pkg/toolcall"
	"github.com/ilkoid/agentcore/pkg/tools"
	"github.com/ilkoid/agentcore/pkg/utils"
)

// executeCalls выполняет батч вызовов строго последовательно,
// в порядке сканирования.
//
// Никогда не падает целиком: исход каждого вызова фиксируется
// независимо, ошибка одного не прерывает соседей. Последовательность
// ограничивает потребление ресурсов и делает порядок результатов
// детерминированным для следующего хода модели.
func (o *Orchestrator) executeCalls(ctx context.Context, calls []toolcall.Call) []ToolResult {
	results := make([]ToolResult, 0, len(calls))
	for _, call := range calls {
		results = append(results, o.executeCall(ctx, call))
	}
	return results
}

// executeCall выполняет один вызов.
//
// Отмена per-call, не per-run: у медленного инструмента ошибкой
// становится только его собственный результат.
func (o *Orchestrator) executeCall(ctx context.Context, call toolcall.Call) ToolResult {
	start := time.Now()
	result := ToolResult{Name: call.Name}

	tool, err := o.cfg.Registry.Get(call.Name)
	if err != nil {
		// Незарегистрированное имя — ошибка без какого-либо вызова
		result.Err = fmt.Errorf("%w: %s", ErrUnknownTool, call.Name)
		result.Duration = time.Since(start)
		o.record(call, result)
		return result
	}

	toolCtx, cancel := context.WithTimeout(ctx, o.cfg.ToolTimeout)
	defer cancel()
	toolCtx = tools.WithWorkDir(toolCtx, o.cfg.WorkDir)

	// Инструмент работает в отдельной горутине — зависший вызов
	// бросаем по таймауту, не дожидаясь
	type execResult struct {
		output string
		err    error
	}
	resultChan := make(chan execResult, 1)

	go func() {
		output, execErr := tool.Execute(toolCtx, call.ArgsJSON)
		resultChan <- execResult{output, execErr}
	}()

	select {
	case <-toolCtx.Done():
		result.Duration = time.Since(start)
		if errors.Is(toolCtx.Err(), context.DeadlineExceeded) {
			result.Err = fmt.Errorf("%w: %s after %v", ErrToolTimeout, call.Name, o.cfg.ToolTimeout)
			utils.Warn("tool execution timeout",
				"tool", call.Name,
				"timeout", o.cfg.ToolTimeout,
				"duration_ms", result.Duration.Milliseconds())
		} else {
			result.Err = fmt.Errorf("tool execution cancelled: %w", toolCtx.Err())
		}

	case res := <-resultChan:
		result.Duration = time.Since(start)
		if res.err != nil {
			result.Err = res.err
		} else {
			output, elided := utils.Truncate(res.output, o.cfg.MaxToolOutput)
			if elided > 0 {
				output += fmt.Sprintf(" …[обрезано %d символов]", elided)
			}
			result.Output = output
		}
	}

	o.record(call, result)
	return result
}

// record пишет выполнение в debug-трейс (recorder nil-safe).
func (o *Orchestrator) record(call toolcall.Call, result ToolResult) {
	errMsg := ""
	if result.Err != nil {
		errMsg = result.Err.Error()
	}
	o.cfg.Recorder.RecordToolExecution(call.Name, call.ArgsJSON, result.Output, errMsg, result.Duration)
}
