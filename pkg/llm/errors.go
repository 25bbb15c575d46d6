// Ошибки провайдеров.
//
// Все ошибки поддерживают errors.Is() / errors.As() для обработки
// на верхних уровнях: ProviderError завершает запуск оркестратора,
// прогресс без провайдера невозможен.
package llm

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey возвращается когда в конфигурации модели нет ключа.
//
// Проверка выполняется ДО любого сетевого вызова — отсутствие ключа
// это ошибка конфигурации, а не транспорта.
var ErrMissingAPIKey = errors.New("api key is not configured")

// ProviderError — ошибка бэкенда с контекстом.
//
// Оборачивает транспортные ошибки, non-success статусы
// и некорректные тела ответов.
type ProviderError struct {
	Backend string // "openai", "anthropic", "local"
	Err     error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Backend, e.Err)
}

// Unwrap поддерживает errors.Is() по вложенной ошибке.
func (e *ProviderError) Unwrap() error {
	return e.Err
}
