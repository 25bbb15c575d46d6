// Scan Test Utility — CLI утилита для отладки сканера вызовов.
//
// Читает текст из аргумента или stdin, выводит найденные вызовы
// инструментов в JSON. Удобно проверять, как парсер видит сырой
// ответ модели.
//
// Использование:
//
//	go run cmd/scan-test/main.go 'Смотрю файл <<tool:read_file {path: "main.go"}>>'
//	cat response.txt | go run cmd/scan-test/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ilkoid/agentcore/pkg/toolcall"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var text string
	if len(os.Args) > 1 {
		text = os.Args[1]
	} else {
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		text = string(raw)
	}

	calls := toolcall.Scan(text)

	fmt.Printf("Найдено вызовов: %d\n", len(calls))
	for i, call := range calls {
		fmt.Printf("\n[%d] %s\n", i+1, call.Name)
		fmt.Printf("    каноничный JSON: %s\n", call.ArgsJSON)

		pretty, err := json.MarshalIndent(call.Args, "    ", "  ")
		if err != nil {
			fmt.Printf("    аргументы: %v\n", call.Args)
			continue
		}
		fmt.Printf("    аргументы: %s\n", pretty)
	}

	return nil
}
