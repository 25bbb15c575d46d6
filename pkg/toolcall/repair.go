package toolcall

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Repair разбирает near-JSON текст от LLM в валидное JSON-значение.
//
// Алгоритм двухэтапный, порядок важен: сначала посимвольный ремонт
// кавычек и запятых, потом закавычивание голых ключей — regex ключей
// предполагает что строковые литералы уже корректно закавычены.
//
//  1. Строгий разбор; успех — сразу возврат.
//  2. Посимвольный проход с учётом строк и escape-состояния:
//     вне строк одинарная кавычка → двойная, запятая перед
//     закрывающей } или ] опускается.
//  3. Голые ключи ({key: ...}) оборачиваются в кавычки.
//  4. Повторный строгий разбор; неудача — ParseError с сообщением
//     исходного парсера.
//
// Известное ограничение: замена одинарных кавычек наивная и ломается
// на апострофах внутри незакавыченного текста ({'a': 'it's'}) —
// поведение зафиксировано тестами, это best-effort слой.
func Repair(raw string) (any, error) {
	var v any

	// 1. Сначала пробуем строгий разбор
	firstErr := json.Unmarshal([]byte(raw), &v)
	if firstErr == nil {
		return v, nil
	}

	// 2-3. Ремонт и повторная попытка
	repaired := repairQuotesAndCommas(raw)
	repaired = quoteBareKeys(repaired)

	if err := json.Unmarshal([]byte(repaired), &v); err != nil {
		return nil, &ParseError{Cause: firstErr}
	}
	return v, nil
}

// repairQuotesAndCommas — первый этап ремонта.
//
// Состояние повторяет правила экранирования JSON-строк: backslash
// взводит escape ровно на один следующий символ, двойной backslash
// не взводит его дважды. Внутри строк символы проходят без изменений.
// Конверсия одинарной кавычки НЕ переводит сканер в строковый режим —
// содержимое одинарных кавычек обрабатывается как "снаружи".
func repairQuotesAndCommas(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			if escaped {
				escaped = false
				b.WriteByte(c)
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			b.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inString = true
			b.WriteByte(c)
		case '\'':
			// Наивная нормализация одинарных кавычек
			b.WriteByte('"')
		case ',':
			// Висячая запятая: следующий непробельный символ — } или ]
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			if j < len(s) && (s[j] == '}' || s[j] == ']') {
				continue
			}
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)

// quoteBareKeys — второй этап: закавычивание незакавыченных ключей.
//
// Голый идентификатор сразу за { или , (с учётом пробелов), за которым
// следует ':', оборачивается в двойные кавычки. Проход string-aware:
// этап предполагает что строковые литералы уже корректно закавычены
// (итог первого этапа), и не трогает текст внутри них.
func quoteBareKeys(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			b.WriteByte(c)
			continue
		}

		b.WriteByte(c)

		switch c {
		case '"':
			inString = true
		case '{', ',':
			// Кандидат на голый ключ: идентификатор за пробелами, потом ':'
			j := i + 1
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			ident := identRe.FindString(s[j:])
			if ident == "" {
				continue
			}
			k := j + len(ident)
			for k < len(s) && isSpace(s[k]) {
				k++
			}
			if k >= len(s) || s[k] != ':' {
				continue
			}
			b.WriteString(s[i+1 : j]) // пробелы перед ключом
			b.WriteByte('"')
			b.WriteString(ident)
			b.WriteByte('"')
			i = j + len(ident) - 1 // дальше с пробелов/двоеточия
		}
	}

	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
