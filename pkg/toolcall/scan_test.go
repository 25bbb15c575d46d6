package toolcall

import (
	"testing"
)

// TestScanSingleCall — базовый сценарий: маркер посреди текста.
func TestScanSingleCall(t *testing.T) {
	calls := Scan(`Checking... <<tool:help {}>>`)

	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Name != "help" {
		t.Errorf("expected name 'help', got %q", calls[0].Name)
	}
	if len(calls[0].Args) != 0 {
		t.Errorf("expected empty args, got %v", calls[0].Args)
	}
	if calls[0].ArgsJSON != "{}" {
		t.Errorf("expected canonical args '{}', got %q", calls[0].ArgsJSON)
	}
}

// TestScanPreservesOrder: N корректных вызовов возвращаются
// в порядке появления в тексте.
func TestScanPreservesOrder(t *testing.T) {
	text := `Сначала <<tool:first {"n": 1}>>, потом <<tool:second {"n": 2}>> и <<tool:third {"n": 3}>>`

	calls := Scan(text)
	if len(calls) != 3 {
		t.Fatalf("expected 3 calls, got %d", len(calls))
	}

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if calls[i].Name != name {
			t.Errorf("call %d: expected %q, got %q", i, name, calls[i].Name)
		}
	}
}

// TestScanRepairsArguments: near-JSON аргументы проходят через Repair.
func TestScanRepairsArguments(t *testing.T) {
	calls := Scan(`<<tool:read_file {'path': 'a.txt',}>>`)

	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if got := calls[0].Args["path"]; got != "a.txt" {
		t.Errorf("expected path 'a.txt', got %v", got)
	}
	if calls[0].ArgsJSON != `{"path":"a.txt"}` {
		t.Errorf("unexpected canonical args: %q", calls[0].ArgsJSON)
	}
}

// TestScanNestedBracesAndStrings: скобки внутри строк и вложенные
// объекты матчатся корректно.
func TestScanNestedBracesAndStrings(t *testing.T) {
	calls := Scan(`<<tool:query {"expr": "if {x} then {y}", "opts": {"limit": 2}}>>`)

	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if got := calls[0].Args["expr"]; got != "if {x} then {y}" {
		t.Errorf("unexpected expr: %v", got)
	}
	opts, ok := calls[0].Args["opts"].(map[string]any)
	if !ok {
		t.Fatalf("opts is not an object: %v", calls[0].Args["opts"])
	}
	if opts["limit"] != float64(2) {
		t.Errorf("unexpected limit: %v", opts["limit"])
	}
}

// TestScanSkipsCallWithoutArgumentObject: после имени нет '{' —
// вхождение пропускается, скан продолжается.
func TestScanSkipsCallWithoutArgumentObject(t *testing.T) {
	calls := Scan(`<<tool:broken no-args>> текст <<tool:ok {}>>`)

	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Name != "ok" {
		t.Errorf("expected 'ok', got %q", calls[0].Name)
	}
}

// TestScanUnterminatedBraces: незакрытые скобки — ноль вызовов,
// без паники.
func TestScanUnterminatedBraces(t *testing.T) {
	calls := Scan(`<<tool:a {"x": 1`)
	if len(calls) != 0 {
		t.Fatalf("expected 0 calls, got %d", len(calls))
	}
}

// TestScanMissingEndMarker: вызов без закрывающего маркера
// отбрасывается, позиция уходит за сматченную область без возврата.
func TestScanMissingEndMarker(t *testing.T) {
	calls := Scan(`<<tool:a {"x": 1} без маркера, дальше <<tool:b {}>>`)

	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Name != "b" {
		t.Errorf("expected 'b', got %q", calls[0].Name)
	}
}

// TestScanDiscardsUnrepairableArguments: сломанный JSON отбрасывает
// только этот вызов.
func TestScanDiscardsUnrepairableArguments(t *testing.T) {
	calls := Scan(`<<tool:bad {"a": }>> и <<tool:good {"a": 1}>>`)

	if len(calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(calls))
	}
	if calls[0].Name != "good" {
		t.Errorf("expected 'good', got %q", calls[0].Name)
	}
}

// TestScanNoMarkers: обычный текст — пустой результат.
func TestScanNoMarkers(t *testing.T) {
	if calls := Scan("Просто ответ без вызовов. {\"a\": 1}"); len(calls) != 0 {
		t.Fatalf("expected 0 calls, got %d", len(calls))
	}
}
