// Agent — CLI запуск агента с инструментами.
//
// Использование:
//
//	agent "задача"
//	agent -model gpt-4o -auto "прочитай main.go и перескажи"
//	agent -config config.yaml -workdir ./project "составь отчёт"
//
// Коды выхода: 0 — успех, 2 — исчерпан бюджет ходов, 1 — остальные ошибки.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/ilkoid/agentcore/pkg/agent"
	"github.com/ilkoid/agentcore/pkg/config"
	"github.com/ilkoid/agentcore/pkg/debug"
	"github.com/ilkoid/agentcore/pkg/factory"
	"github.com/ilkoid/agentcore/pkg/s3storage"
	"github.com/ilkoid/agentcore/pkg/tools"
	"github.com/ilkoid/agentcore/pkg/tools/std"
	"github.com/ilkoid/agentcore/pkg/utils"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, agent.ErrMaxTurns) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath = flag.String("config", "config.yaml", "путь к YAML конфигурации")
		modelAlias = flag.String("model", "", "алиас модели из конфига или имя модели")
		provider   = flag.String("provider", "", "провайдер: openai, anthropic, local (пусто — инференс по имени)")
		auto       = flag.Bool("auto", false, "выполнять инструменты без подтверждения")
		workDir    = flag.String("workdir", ".", "рабочая директория для файловых инструментов")
	)
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: agent [flags] \"задача\"")
		flag.PrintDefaults()
		os.Exit(1)
	}
	task := flag.Arg(0)

	// Конфиг опционален: без файла работаем на дефолтах и флагах
	cfg := &config.AppConfig{}
	if loaded, err := config.Load(*configPath); err == nil {
		cfg = loaded
	} else if flagWasSet("config") {
		return err
	}

	if err := utils.InitLogger("logs", cfg.App.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to init logger: %v\n", err)
	}
	defer utils.Close()

	// Модель: алиас из конфига либо прямое имя
	modelDef, ok := cfg.GetModel(*modelAlias)
	if !ok {
		modelDef = config.ModelDef{ModelName: *modelAlias}
	}
	if modelDef.ModelName == "" {
		return fmt.Errorf("model is not specified: use -model or models.default in config")
	}
	if *provider != "" {
		modelDef.Provider = *provider
	}

	llmProvider, err := factory.NewProvider(modelDef)
	if err != nil {
		return fmt.Errorf("failed to create provider: %w", err)
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	var recorder *debug.Recorder
	if cfg.App.Debug {
		recorder, err = debug.NewRecorder(debug.RecorderConfig{
			LogsDir:         cfg.App.LogsDir,
			IncludeToolArgs: true,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: debug recorder disabled: %v\n", err)
		}
	}

	orchestrator, err := agent.New(agent.Config{
		Provider:      llmProvider,
		Registry:      registry,
		MaxTurns:      cfg.Agent.MaxTurns,
		SystemPrompt:  cfg.Agent.SystemPrompt,
		Autonomous:    *auto,
		ToolTimeout:   cfg.Agent.ToolTimeoutDuration(),
		MaxToolOutput: cfg.Agent.MaxToolOutput,
		WorkDir:       *workDir,
		ModelName:     modelDef.ModelName,
		Recorder:      recorder,
	})
	if err != nil {
		return fmt.Errorf("failed to create orchestrator: %w", err)
	}

	result, err := orchestrator.Run(context.Background(), task)

	// Частичный результат печатаем и при ошибке
	switch result.Status {
	case agent.StatusDone:
		fmt.Println(result.Text)
	case agent.StatusAwaitingConfirmation:
		fmt.Println("Агент запросил выполнение инструментов (запусти с -auto для выполнения):")
		fmt.Println(result.Text)
	case agent.StatusMaxTurns:
		fmt.Fprintf(os.Stderr, "Бюджет ходов исчерпан (%d), задача не завершена\n", result.Turns)
	}
	return err
}

// buildRegistry регистрирует стандартные инструменты.
// save_report подключается только при настроенном S3.
func buildRegistry(cfg *config.AppConfig) (*tools.Registry, error) {
	registry := tools.NewRegistry()

	toRegister := []tools.Tool{
		std.NewReadFileTool(),
		std.NewListFilesTool(),
		std.NewHTTPGetTool(cfg.HTTP.GetDefaults()),
		std.NewHelpTool(registry),
	}

	if cfg.S3.Enabled() {
		s3client, err := s3storage.New(cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to init s3 storage: %w", err)
		}
		toRegister = append(toRegister, std.NewSaveReportTool(s3client, cfg.S3.Prefix))
	}

	for _, tool := range toRegister {
		// Инструмент можно выключить в секции tools конфига
		if tc, ok := cfg.Tools[tool.Definition().Name]; ok && !tc.Enabled {
			continue
		}
		if err := registry.Register(tool); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// flagWasSet — флаг передан явно (а не дефолт).
func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
