package toolcall

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/ilkoid/agentcore/pkg/utils"
)

var nameRe = regexp.MustCompile(`^[A-Za-z0-9_]+`)

// Scan находит все вызовы инструментов в тексте ответа модели.
//
// Никогда не возвращает ошибку: некорректные вхождения логируются
// и пропускаются, корректные разбираются. Один проход слева направо,
// порядок вызовов в результате — порядок появления в тексте
// (sandbox исполняет их строго в этом порядке).
//
// Некорректное вхождение не срывает скан: позиция продвигается за
// разобранную часть (имя либо сматченный по скобкам span), без
// возврата назад в пропущенный текст.
func Scan(text string) []Call {
	var calls []Call

	pos := 0
	for {
		idx := strings.Index(text[pos:], StartMarker)
		if idx < 0 {
			break
		}
		pos += idx + len(StartMarker)

		// Имя — максимальный ран словарных символов сразу за маркером
		name := nameRe.FindString(text[pos:])
		if name == "" {
			utils.Warn("tool call marker without name", "offset", pos)
			continue
		}
		pos += len(name)

		// За именем, после пробелов, обязан идти объект аргументов
		j := pos
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if j >= len(text) || text[j] != '{' {
			utils.Warn("tool call without argument object", "tool", name)
			continue // возобновляем скан сразу после имени
		}

		span, end, ok := matchBraces(text, j)
		if !ok {
			// Скобки не закрылись до конца текста — сканировать дальше нечего
			utils.Warn("unterminated argument object", "tool", name)
			break
		}
		pos = end

		// Закрывающий маркер после span аргументов
		k := end
		for k < len(text) && isSpace(text[k]) {
			k++
		}
		if !strings.HasPrefix(text[k:], EndMarker) {
			utils.Warn("tool call without end marker", "tool", name)
			continue // позиция уже за сматченной областью
		}
		pos = k + len(EndMarker)

		// Декодируем аргументы через лояльный парсер;
		// неудача отбрасывает только этот вызов
		val, err := Repair(span)
		if err != nil {
			utils.Warn("tool call arguments are not valid json", "tool", name, "error", err)
			continue
		}
		obj, isObj := val.(map[string]any)
		if !isObj {
			utils.Warn("tool call arguments are not an object", "tool", name)
			continue
		}
		canonical, err := json.Marshal(obj)
		if err != nil {
			utils.Warn("tool call arguments cannot be canonicalized", "tool", name, "error", err)
			continue
		}

		calls = append(calls, Call{
			Name:     name,
			Args:     obj,
			ArgsJSON: string(canonical),
		})
	}

	return calls
}

// matchBraces выделяет сбалансированный {...} span начиная с start.
//
// Использует ту же string/escape-aware машину состояний что и Repair:
// скобки внутри строковых значений и вложенные объекты учитываются
// корректно. Возвращает span, позицию за закрывающей скобкой и признак
// что глубина вернулась к нулю.
func matchBraces(s string, start int) (string, int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], i + 1, true
			}
		}
	}

	return "", len(s), false
}
