package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ilkoid/agentcore/pkg/config"
	"github.com/ilkoid/agentcore/pkg/llm"
)

// newTestClient создает клиент, смотрящий на фейковый Messages API.
func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(config.ModelDef{
		APIKey:    "test-key",
		ModelName: "claude-sonnet-4",
		BaseURL:   serverURL,
	})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// TestNewClientValidation: отсутствие ключа или имени модели —
// ошибка конфигурации до любого сетевого вызова.
func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(config.ModelDef{ModelName: "claude-sonnet-4"})
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	if _, err := NewClient(config.ModelDef{APIKey: "k"}); err == nil {
		t.Error("expected error for missing model name")
	}
}

// TestCompleteCollapsesSystemMessages: у бэкенда единственный
// system-слот — все system-сообщения сворачиваются в поле system,
// в messages остаются только user/assistant ходы.
func TestCompleteCollapsesSystemMessages(t *testing.T) {
	var got messageRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != messagesPath {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if r.Header.Get("Anthropic-Version") != anthropicVersion {
			t.Errorf("missing version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}

		json.NewEncoder(w).Encode(messageResponse{
			Content: []contentBlock{
				{Type: "text", Text: "Первая часть. "},
				{Type: "text", Text: "Вторая часть."},
			},
			StopReason: "end_turn",
		})
	}))
	defer server.Close()

	resp, err := newTestClient(t, server.URL).Complete(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "будь краток"},
		{Role: llm.RoleUser, Content: "задача"},
		{Role: llm.RoleAssistant, Content: "уточняю"},
		{Role: llm.RoleSystem, Content: "отвечай по-русски"},
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	// System-сообщения сведены в один preamble
	if got.System != "будь краток\n\nотвечай по-русски" {
		t.Errorf("unexpected system field: %q", got.System)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("expected 2 wire messages, got %d", len(got.Messages))
	}
	for _, m := range got.Messages {
		if m.Role == llm.RoleSystem {
			t.Errorf("system role must not appear in messages")
		}
	}
	if got.MaxTokens != defaultMaxTokens {
		t.Errorf("max_tokens is mandatory, got %d", got.MaxTokens)
	}

	// Text-блоки склеены, end_turn → Done
	if resp.Content != "Первая часть. Вторая часть." {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if !resp.Done {
		t.Error("stop_reason end_turn must map to Done=true")
	}
}

// TestCompleteStopReasonMapping: Done только для end_turn и
// stop_sequence, оборванный по лимиту ответ не завершён.
func TestCompleteStopReasonMapping(t *testing.T) {
	tests := []struct {
		stopReason string
		wantDone   bool
	}{
		{"end_turn", true},
		{"stop_sequence", true},
		{"max_tokens", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("stop_reason="+tt.stopReason, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(messageResponse{
					Content:    []contentBlock{{Type: "text", Text: "x"}},
					StopReason: tt.stopReason,
				})
			}))
			defer server.Close()

			resp, err := newTestClient(t, server.URL).Complete(context.Background(),
				[]llm.Message{{Role: llm.RoleUser, Content: "задача"}})
			if err != nil {
				t.Fatalf("complete failed: %v", err)
			}
			if resp.Done != tt.wantDone {
				t.Errorf("stop_reason %q: Done = %v, want %v", tt.stopReason, resp.Done, tt.wantDone)
			}
		})
	}
}

// TestCompleteAPIError: структурированная ошибка API оборачивается
// в ProviderError с сообщением бэкенда.
func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(errorResponse{
			Error: errorBody{Type: "invalid_request_error", Message: "max_tokens is too large"},
		})
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Complete(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "задача"}})

	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Backend != "anthropic" {
		t.Errorf("expected backend anthropic, got %s", provErr.Backend)
	}
	if !strings.Contains(err.Error(), "max_tokens is too large") {
		t.Errorf("expected api message in error, got: %v", err)
	}
}

// TestCompleteMalformedBody: невалидный JSON в успешном ответе —
// тоже ProviderError, а не паника или пустой результат.
func TestCompleteMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("definitely not json"))
	}))
	defer server.Close()

	_, err := newTestClient(t, server.URL).Complete(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "задача"}})

	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}
