package tools

import "context"

// Ключи значений контекста выполнения инструмента.
type ctxKey int

const workDirKey ctxKey = iota

// WithWorkDir кладёт рабочую директорию запуска в контекст.
//
// Sandbox оборачивает контекст каждого вызова, инструменты работающие
// с файловой системой читают её через WorkDir().
func WithWorkDir(ctx context.Context, dir string) context.Context {
	return context.WithValue(ctx, workDirKey, dir)
}

// WorkDir возвращает рабочую директорию из контекста, "." если не задана.
func WorkDir(ctx context.Context) string {
	if dir, ok := ctx.Value(workDirKey).(string); ok && dir != "" {
		return dir
	}
	return "."
}
