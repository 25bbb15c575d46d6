// Базовые типы — универсальный язык общения с моделями.
package llm

// Message — одно сообщение диалога.
//
// Инвариант: в диалоге ровно одно system-сообщение, оно вставляется
// оркестратором при старте и больше не меняется.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string // Текстовое содержимое
}

// Response — ответ провайдера на запрос завершения.
//
// Done означает что провайдер считает СВОЙ ход завершённым
// (finish_reason = stop и т.п.), а не что вся задача решена.
type Response struct {
	Content string
	Done    bool
}

// Константы ролей для удобства
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)
