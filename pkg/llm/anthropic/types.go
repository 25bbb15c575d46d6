// Wire-типы Anthropic Messages API. Только то подмножество схемы,
// которое нужно для chat-completion без стриминга.
package anthropic

const (
	defaultBaseURL   = "https://api.anthropic.com"
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
	defaultMaxTokens = 4096
)

// messageRequest — тело запроса Messages API.
//
// System — единственный system-слот бэкенда: все system-сообщения
// диалога сворачиваются в это поле.
type messageRequest struct {
	Model       string         `json:"model"`
	Messages    []messageParam `json:"messages"`
	System      string         `json:"system,omitempty"`
	MaxTokens   int            `json:"max_tokens"`
	Temperature *float64       `json:"temperature,omitempty"`
}

// messageParam — один ход диалога в формате Anthropic.
type messageParam struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// messageResponse — интересующая нас часть ответа.
type messageResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// contentBlock — блок содержимого; забираем только text-блоки.
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// errorResponse — тело ошибки API.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
