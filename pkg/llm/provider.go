// Интерфейс Провайдера через который работает весь runtime.

package llm

import "context"

// Provider — контракт для любого chat-completion бэкенда.
//
// Каждая реализация сама маппит унифицированную историю сообщений
// в wire-формат своего API (например, сворачивает system-сообщения
// в один preamble для бэкендов с единственным system-слотом).
type Provider interface {
	// Complete отправляет историю диалога и возвращает ответ модели.
	Complete(ctx context.Context, messages []Message) (Response, error)
}
