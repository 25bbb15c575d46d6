// Package utils предоставляет файловый логгер и мелкие помощники runtime.
//
// Логгер пишет .log файл с timestamp в имени в заданную директорию.
// Thread-safe через sync.Mutex. До вызова InitLogger все Info/Warn/Error
// молча игнорируются — тесты работают без файлов на диске.
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	logMu      sync.Mutex
	logFile    *os.File
	debugLevel bool
)

// InitLogger создаёт .log файл в директории dir (пустая — текущая).
//
// Имя файла: agentcore-YYYY-MM-DD-HH-MM.log.
// debug включает запись Debug-сообщений.
func InitLogger(dir string, debug bool) error {
	logMu.Lock()
	defer logMu.Unlock()

	if logFile != nil {
		return nil
	}

	name := fmt.Sprintf("agentcore-%s.log", time.Now().Format("2006-01-02-15-04"))
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create logs directory: %w", err)
		}
		name = filepath.Join(dir, name)
	}

	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	logFile = f
	debugLevel = debug

	// Пишем напрямую, мьютекс уже захвачен
	line := fmt.Sprintf("[%s] INFO: logger initialized file=%s\n",
		time.Now().Format("2006-01-02 15:04:05"), name)
	if _, err := logFile.WriteString(line); err != nil {
		fmt.Fprintf(os.Stderr, "%s", line)
	}
	return nil
}

// Info - информационное сообщение.
func Info(msg string, keyvals ...any) {
	write("INFO", msg, keyvals...)
}

// Warn - предупреждение.
func Warn(msg string, keyvals ...any) {
	write("WARN", msg, keyvals...)
}

// Error - сообщение об ошибке.
func Error(msg string, keyvals ...any) {
	write("ERROR", msg, keyvals...)
}

// Debug - отладочное сообщение. Пишется только при InitLogger(..., true).
func Debug(msg string, keyvals ...any) {
	logMu.Lock()
	enabled := debugLevel
	logMu.Unlock()
	if !enabled {
		return
	}
	write("DEBUG", msg, keyvals...)
}

// write — внутренняя запись строки лога.
//
// Формат: [YYYY-MM-DD HH:MM:SS] LEVEL: message key1=value1 key2=value2
// При ошибке записи в файл — fallback на stderr.
func write(level, msg string, keyvals ...any) {
	logMu.Lock()
	defer logMu.Unlock()

	if logFile == nil {
		return
	}

	line := fmt.Sprintf("[%s] %s: %s", time.Now().Format("2006-01-02 15:04:05"), level, msg)
	for i := 0; i+1 < len(keyvals); i += 2 {
		line += fmt.Sprintf(" %v=%v", keyvals[i], keyvals[i+1])
	}
	line += "\n"

	if _, err := logFile.WriteString(line); err != nil {
		fmt.Fprintf(os.Stderr, "%s", line)
		return
	}
	if err := logFile.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Sync failed: %v]\n", err)
	}
}

// Close закрывает лог-файл.
//
// Вызывается через defer в main().
func Close() {
	logMu.Lock()
	defer logMu.Unlock()

	if logFile != nil {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER WARNING: Close failed: %v]\n", err)
		}
		logFile = nil
	}
}
