package agent

import (
	"time"

	"github.com/ilkoid/agentcore/pkg/llm"
)

// Status — итоговое состояние запуска оркестратора.
type Status string

const (
	// StatusDone — модель завершила задачу (done-флаг или стоп-маркер).
	StatusDone Status = "done"

	// StatusAwaitingConfirmation — найдены вызовы инструментов,
	// но автономный режим выключен. Ничего не выполнено; чтобы
	// продолжить, вызывающий перезапускает задачу с Autonomous=true.
	// Это осознанный human-in-the-loop шлюз, не ошибка.
	StatusAwaitingConfirmation Status = "awaiting_confirmation"

	// StatusMaxTurns — бюджет ходов исчерпан без завершения.
	StatusMaxTurns Status = "max_turns_exceeded"

	// StatusFailed — запуск оборван ошибкой провайдера.
	StatusFailed Status = "failed"
)

// Result — итог одного запуска.
//
// History отдаётся всегда, включая оборванные запуски: частичные
// результаты инструментов остаются видимыми для диагностики.
type Result struct {
	Text    string        // Финальный текст модели (или сырой ответ при AwaitingConfirmation)
	Status  Status        // Чем закончился запуск
	Turns   int           // Сколько ходов израсходовано
	History []llm.Message // Полная история диалога запуска
}

// ToolResult — результат выполнения одного вызова инструмента.
// Заполнено ровно одно из Output/Err.
type ToolResult struct {
	Name     string
	Output   string
	Err      error
	Duration time.Duration
}
