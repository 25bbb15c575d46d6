package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ilkoid/agentcore/pkg/toolcall"
	"github.com/ilkoid/agentcore/pkg/tools"
)

// newSandbox собирает оркестратор для прямого тестирования executeCalls.
func newSandbox(t *testing.T, registry *tools.Registry, mutate func(*Config)) *Orchestrator {
	t.Helper()
	return newTestOrchestrator(t, &mockProvider{}, registry, mutate)
}

// TestSandboxUnknownTool: незарегистрированное имя — ошибка результата,
// ничего не вызывается.
func TestSandboxUnknownTool(t *testing.T) {
	o := newSandbox(t, nil, nil)

	results := o.executeCalls(context.Background(), []toolcall.Call{
		{Name: "explode", ArgsJSON: "{}"},
	})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !errors.Is(results[0].Err, ErrUnknownTool) {
		t.Errorf("expected ErrUnknownTool, got %v", results[0].Err)
	}
	if !strings.Contains(results[0].Err.Error(), "explode") {
		t.Errorf("error must name the tool: %v", results[0].Err)
	}
}

// TestSandboxIsolation: отказ одного инструмента не трогает соседей,
// порядок результатов — порядок вызовов.
func TestSandboxIsolation(t *testing.T) {
	fail := &mockTool{
		Name: "fail",
		ExecuteFunc: func(ctx context.Context, argsJSON string) (string, error) {
			return "", errors.New("внутренняя ошибка")
		},
	}
	ok := &mockTool{
		Name: "ok",
		ExecuteFunc: func(ctx context.Context, argsJSON string) (string, error) {
			return "всё хорошо", nil
		},
	}
	registry := tools.NewRegistry()
	for _, tool := range []*mockTool{fail, ok} {
		if err := registry.Register(tool); err != nil {
			t.Fatal(err)
		}
	}

	o := newSandbox(t, registry, nil)
	results := o.executeCalls(context.Background(), []toolcall.Call{
		{Name: "fail", ArgsJSON: "{}"},
		{Name: "ok", ArgsJSON: "{}"},
	})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "fail" || results[1].Name != "ok" {
		t.Errorf("result order broken: %s, %s", results[0].Name, results[1].Name)
	}
	if results[0].Err == nil {
		t.Error("expected error from failing tool")
	}
	if results[1].Err != nil || results[1].Output != "всё хорошо" {
		t.Errorf("healthy tool affected: %+v", results[1])
	}
}

// TestSandboxTimeout: зависший инструмент бросаем по таймауту,
// следующий вызов выполняется как ни в чём не бывало.
func TestSandboxTimeout(t *testing.T) {
	slow := &mockTool{
		Name: "slow",
		ExecuteFunc: func(ctx context.Context, argsJSON string) (string, error) {
			select {
			case <-time.After(2 * time.Second):
				return "слишком поздно", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}
	fast := &mockTool{
		Name: "fast",
		ExecuteFunc: func(ctx context.Context, argsJSON string) (string, error) {
			return "быстро", nil
		},
	}
	registry := tools.NewRegistry()
	for _, tool := range []*mockTool{slow, fast} {
		if err := registry.Register(tool); err != nil {
			t.Fatal(err)
		}
	}

	o := newSandbox(t, registry, func(cfg *Config) {
		cfg.ToolTimeout = 50 * time.Millisecond
	})

	start := time.Now()
	results := o.executeCalls(context.Background(), []toolcall.Call{
		{Name: "slow", ArgsJSON: "{}"},
		{Name: "fast", ArgsJSON: "{}"},
	})
	elapsed := time.Since(start)

	if !errors.Is(results[0].Err, ErrToolTimeout) {
		t.Errorf("expected ErrToolTimeout, got %v", results[0].Err)
	}
	if results[1].Err != nil || results[1].Output != "быстро" {
		t.Errorf("call after timeout affected: %+v", results[1])
	}
	// Таймаут per-call: батч не ждёт полные 2 секунды
	if elapsed > time.Second {
		t.Errorf("batch waited for the hung tool: %v", elapsed)
	}
}

// TestSandboxTruncation: длинный вывод усечён до лимита с маркером
// количества отброшенных символов.
func TestSandboxTruncation(t *testing.T) {
	verbose := &mockTool{
		Name: "verbose",
		ExecuteFunc: func(ctx context.Context, argsJSON string) (string, error) {
			return strings.Repeat("ф", 50), nil
		},
	}
	registry := tools.NewRegistry()
	if err := registry.Register(verbose); err != nil {
		t.Fatal(err)
	}

	o := newSandbox(t, registry, func(cfg *Config) {
		cfg.MaxToolOutput = 10
	})

	results := o.executeCalls(context.Background(), []toolcall.Call{
		{Name: "verbose", ArgsJSON: "{}"},
	})

	output := results[0].Output
	if !strings.HasPrefix(output, strings.Repeat("ф", 10)) {
		t.Errorf("unexpected truncated prefix: %q", output)
	}
	if !strings.Contains(output, "[обрезано 40 символов]") {
		t.Errorf("missing truncation marker: %q", output)
	}
}

// TestSandboxWorkDirInContext: рабочая директория запуска доходит
// до инструмента через контекст.
func TestSandboxWorkDirInContext(t *testing.T) {
	var gotDir string
	probe := &mockTool{
		Name: "probe",
		ExecuteFunc: func(ctx context.Context, argsJSON string) (string, error) {
			gotDir = tools.WorkDir(ctx)
			return "ok", nil
		},
	}
	registry := tools.NewRegistry()
	if err := registry.Register(probe); err != nil {
		t.Fatal(err)
	}

	o := newSandbox(t, registry, func(cfg *Config) {
		cfg.WorkDir = "/tmp/agent-run"
	})

	o.executeCalls(context.Background(), []toolcall.Call{
		{Name: "probe", ArgsJSON: "{}"},
	})

	if gotDir != "/tmp/agent-run" {
		t.Errorf("expected workdir from config, got %q", gotDir)
	}
}
