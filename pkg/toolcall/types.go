// Package toolcall реализует текстовый протокол вызова инструментов.
//
// Вызов записывается моделью прямо в тексте ответа:
//
//	<<tool:ИМЯ {АРГУМЕНТЫ_JSON}>>
//
// где ИМЯ соответствует [A-Za-z0-9_]+, а аргументы — JSON-объект
// (допускается near-JSON: одинарные кавычки, висячие запятые,
// незакавыченные ключи — см. Repair). В одном ответе может быть
// несколько вызовов, все они исполняются в порядке появления.
package toolcall

import (
	"errors"
	"fmt"
)

// Маркеры протокола вызова.
const (
	StartMarker = "<<tool:"
	EndMarker   = ">>"
)

// Call — один распознанный вызов инструмента.
//
// Эфемерный: создаётся сканером из одного вхождения маркера
// и сразу потребляется sandbox-ом.
type Call struct {
	Name     string         // Имя инструмента
	Args     map[string]any // Разобранный объект аргументов
	ArgsJSON string         // Канонический JSON для передачи инструменту
}

// ErrParse возвращается когда восстановление JSON исчерпано.
var ErrParse = errors.New("invalid json")

// ParseError — ошибка разбора с сообщением исходного парсера.
//
// Причина — ошибка ПЕРВОГО строгого разбора: после ремонта текст
// уже не тот, и его ошибка пользователю ничего не говорит.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("json repair failed: %v", e.Cause)
}

// Is проверяет что ошибка является ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// Unwrap поддерживает errors.As по вложенной ошибке.
func (e *ParseError) Unwrap() error {
	return e.Cause
}
