// Package debug предоставляет запись трейса выполнения агента.
//
// Трейс — JSON файл с ходами, вызовами инструментов и итоговым
// статусом запуска. Частичные результаты не теряются: даже у
// оборванного запуска трейс содержит всё выполненное.
package debug

import "time"

// Trace — полный трейс одного запуска.
type Trace struct {
	RunID      string    `json:"run_id"`
	Task       string    `json:"task"`
	Model      string    `json:"model,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Status     string    `json:"status"`
	Turns      []Turn    `json:"turns"`
	FinalText  string    `json:"final_text,omitempty"`
}

// Turn — один ход: ответ модели плюс его вызовы инструментов.
type Turn struct {
	Index          int             `json:"index"`
	AssistantText  string          `json:"assistant_text"`
	ToolExecutions []ToolExecution `json:"tool_executions,omitempty"`
}

// ToolExecution — выполнение одного вызова инструмента.
type ToolExecution struct {
	Name       string `json:"name"`
	ArgsJSON   string `json:"args,omitempty"`
	Result     string `json:"result,omitempty"`
	Error      string `json:"error,omitempty"`
	DurationMs int64  `json:"duration_ms"`
	Success    bool   `json:"success"`
}
