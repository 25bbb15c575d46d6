package debug

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Recorder накапливает трейс выполнения агента и сохраняет его в JSON файл.
//
// Потокобезопасен. Все методы безопасны на nil-получателе —
// оркестратор вызывает их без проверок, recorder опционален.
type Recorder struct {
	mu sync.Mutex

	logsDir       string
	includeArgs   bool
	maxResultSize int

	trace   Trace
	current *Turn
}

// RecorderConfig конфигурация для создания Recorder.
type RecorderConfig struct {
	// LogsDir — директория для сохранения трейсов
	LogsDir string

	// IncludeToolArgs — включать аргументы инструментов в трейс
	IncludeToolArgs bool

	// MaxResultSize — максимальный размер результата в трейсе,
	// 0 — без ограничений
	MaxResultSize int
}

// NewRecorder создает новый Recorder.
//
// Если LogsDir не существует, пытается создать её.
func NewRecorder(cfg RecorderConfig) (*Recorder, error) {
	if cfg.LogsDir == "" {
		cfg.LogsDir = "logs"
	}
	if err := os.MkdirAll(cfg.LogsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	return &Recorder{
		logsDir:       cfg.LogsDir,
		includeArgs:   cfg.IncludeToolArgs,
		maxResultSize: cfg.MaxResultSize,
	}, nil
}

// StartRun начинает запись нового запуска.
func (r *Recorder) StartRun(task, model string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.trace = Trace{
		RunID:     uuid.NewString(),
		Task:      task,
		Model:     model,
		StartedAt: time.Now(),
	}
	r.current = nil
}

// StartTurn открывает запись хода.
func (r *Recorder) StartTurn(index int, assistantText string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flushTurnLocked()
	r.current = &Turn{
		Index:         index,
		AssistantText: assistantText,
	}
}

// RecordToolExecution добавляет выполнение инструмента к текущему ходу.
func (r *Recorder) RecordToolExecution(name, argsJSON, result, errMsg string, duration time.Duration) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current == nil {
		return
	}

	exec := ToolExecution{
		Name:       name,
		Result:     clip(result, r.maxResultSize),
		Error:      errMsg,
		DurationMs: duration.Milliseconds(),
		Success:    errMsg == "",
	}
	if r.includeArgs {
		exec.ArgsJSON = argsJSON
	}
	r.current.ToolExecutions = append(r.current.ToolExecutions, exec)
}

// Finish закрывает трейс и пишет его на диск.
//
// Возвращает путь к файлу трейса.
func (r *Recorder) Finish(status, finalText string) (string, error) {
	if r == nil {
		return "", nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.flushTurnLocked()
	r.trace.FinishedAt = time.Now()
	r.trace.Status = status
	r.trace.FinalText = finalText

	data, err := json.MarshalIndent(r.trace, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal trace: %w", err)
	}

	path := filepath.Join(r.logsDir, fmt.Sprintf("run-%s.json", r.trace.RunID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write trace: %w", err)
	}
	return path, nil
}

// flushTurnLocked переносит текущий ход в трейс. Вызывать под мьютексом.
func (r *Recorder) flushTurnLocked() {
	if r.current != nil {
		r.trace.Turns = append(r.trace.Turns, *r.current)
		r.current = nil
	}
}

func clip(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max]
}
