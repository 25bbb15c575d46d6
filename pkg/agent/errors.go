// Ошибки оркестратора.
//
// Политика распространения: ошибки парсинга и выполнения инструментов
// гасятся в пределах одного вызова и уходят модели строкой в следующем ходе —
// модель должна адаптироваться. ProviderError завершает запуск сразу.
// MaxTurnsError завершает запуск и отличим от ProviderError через
// errors.Is — это политика бюджета, а не отказ бэкенда.
package agent

import (
	"errors"
	"fmt"
)

// ErrMaxTurns возвращается когда бюджет ходов исчерпан без завершения.
var ErrMaxTurns = errors.New("max turns exceeded")

// ErrUnknownTool возвращается на вызов незарегистрированного инструмента.
var ErrUnknownTool = errors.New("unknown tool")

// ErrToolTimeout возвращается когда инструмент не уложился в per-call timeout.
var ErrToolTimeout = errors.New("tool execution timeout")

// MaxTurnsError — ошибка бюджета с контекстом.
type MaxTurnsError struct {
	Turns int
}

func (e *MaxTurnsError) Error() string {
	return fmt.Sprintf("run did not complete in %d turns", e.Turns)
}

// Is проверяет что ошибка является ErrMaxTurns.
func (e *MaxTurnsError) Is(target error) bool {
	return target == ErrMaxTurns
}
