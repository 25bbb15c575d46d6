package utils

// Truncate обрезает строку до max рун.
//
// Возвращает обрезанную строку и количество отброшенных символов.
// max <= 0 означает "без ограничений". Считаем в рунах, а не байтах,
// чтобы не разрезать UTF-8 последовательность посередине.
func Truncate(s string, max int) (string, int) {
	if max <= 0 {
		return s, 0
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s, 0
	}
	return string(runes[:max]), len(runes) - max
}
