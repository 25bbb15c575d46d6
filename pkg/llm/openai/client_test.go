package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ilkoid/agentcore/pkg/config"
	"github.com/ilkoid/agentcore/pkg/llm"
)

// newTestServer поднимает фейковый chat-completions endpoint.
// handler получает уже декодированное тело запроса.
func newTestServer(t *testing.T, handler func(w http.ResponseWriter, req map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		handler(w, req)
	}))
}

// newTestClient создает клиент, смотрящий на фейковый сервер.
func newTestClient(t *testing.T, serverURL string) *Client {
	t.Helper()
	client, err := NewClient(config.ModelDef{
		APIKey:    "test-key",
		ModelName: "gpt-4o",
		BaseURL:   serverURL + "/v1",
	}, "openai")
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	return client
}

// TestNewClientValidation: отсутствие ключа или имени модели —
// ошибка конфигурации до любого сетевого вызова.
func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(config.ModelDef{ModelName: "gpt-4o"}, "openai")
	if !errors.Is(err, llm.ErrMissingAPIKey) {
		t.Errorf("expected ErrMissingAPIKey, got %v", err)
	}

	if _, err := NewClient(config.ModelDef{APIKey: "k"}, "openai"); err == nil {
		t.Error("expected error for missing model name")
	}
}

// TestCompleteMapsConversation: роли и содержимое уходят на провод
// как есть, ответ с finish_reason "stop" маппится в Done=true.
func TestCompleteMapsConversation(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, req map[string]any) {
		if req["model"] != "gpt-4o" {
			t.Errorf("unexpected model on the wire: %v", req["model"])
		}
		msgs, _ := req["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("expected 2 messages on the wire, got %d", len(msgs))
		}
		first, _ := msgs[0].(map[string]any)
		if first["role"] != "system" {
			t.Errorf("system role must pass through natively, got %v", first["role"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{
					"message":       map[string]any{"role": "assistant", "content": "Готово"},
					"finish_reason": "stop",
				},
			},
		})
	})
	defer server.Close()

	client := newTestClient(t, server.URL)
	resp, err := client.Complete(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "будь краток"},
		{Role: llm.RoleUser, Content: "задача"},
	})
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if resp.Content != "Готово" {
		t.Errorf("unexpected content: %q", resp.Content)
	}
	if !resp.Done {
		t.Error("finish_reason stop must map to Done=true")
	}
}

// TestCompleteDoneMapping: только "stop" завершает ход — оборванный
// по лимиту или без finish_reason ответ остаётся незавершённым.
func TestCompleteDoneMapping(t *testing.T) {
	tests := []struct {
		finishReason string
		wantDone     bool
	}{
		{"stop", true},
		{"length", false},
		{"null", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run("finish_reason="+tt.finishReason, func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, req map[string]any) {
				json.NewEncoder(w).Encode(map[string]any{
					"choices": []map[string]any{
						{
							"message":       map[string]any{"role": "assistant", "content": "x"},
							"finish_reason": tt.finishReason,
						},
					},
				})
			})
			defer server.Close()

			resp, err := newTestClient(t, server.URL).Complete(context.Background(),
				[]llm.Message{{Role: llm.RoleUser, Content: "задача"}})
			if err != nil {
				t.Fatalf("complete failed: %v", err)
			}
			if resp.Done != tt.wantDone {
				t.Errorf("finish_reason %q: Done = %v, want %v", tt.finishReason, resp.Done, tt.wantDone)
			}
		})
	}
}

// TestCompleteAPIError: non-success статус оборачивается в ProviderError
// с именем бэкенда.
func TestCompleteAPIError(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, req map[string]any) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "upstream exploded", "type": "server_error"},
		})
	})
	defer server.Close()

	_, err := newTestClient(t, server.URL).Complete(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "задача"}})

	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
	if provErr.Backend != "openai" {
		t.Errorf("expected backend openai, got %s", provErr.Backend)
	}
}

// TestCompleteNoChoices: пустой choices — некорректное тело, ProviderError.
func TestCompleteNoChoices(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, req map[string]any) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	})
	defer server.Close()

	_, err := newTestClient(t, server.URL).Complete(context.Background(),
		[]llm.Message{{Role: llm.RoleUser, Content: "задача"}})

	var provErr *llm.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("expected ProviderError, got %v", err)
	}
}
