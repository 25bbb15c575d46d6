package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig — корневая структура конфигурации.
// Она зеркалит структуру config.yaml.
type AppConfig struct {
	Models ModelsConfig          `yaml:"models"`
	Agent  AgentConfig           `yaml:"agent"`
	Tools  map[string]ToolConfig `yaml:"tools"`
	HTTP   HTTPConfig            `yaml:"http"`
	S3     S3Config              `yaml:"s3"`
	App    AppSpecific           `yaml:"app"`
}

// ModelsConfig — настройки AI моделей.
type ModelsConfig struct {
	Default     string              `yaml:"default"`     // Алиас модели по умолчанию
	Definitions map[string]ModelDef `yaml:"definitions"` // Словарь определений моделей
}

// ModelDef — параметры конкретной модели.
type ModelDef struct {
	Provider    string  `yaml:"provider"`   // "openai", "anthropic", "local"; пусто — инференс по имени
	ModelName   string  `yaml:"model_name"` // Реальное имя в API
	APIKey      string  `yaml:"api_key"`    // Поддерживает ${VAR}
	BaseURL     string  `yaml:"base_url"`   // Для OpenAI-совместимых серверов
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"` // Строка вида "60s", "2m"
}

// TimeoutDuration возвращает таймаут HTTP запроса к модели.
// Невалидное или пустое значение — дефолтные 60 секунд.
func (d ModelDef) TimeoutDuration() time.Duration {
	t, err := time.ParseDuration(d.Timeout)
	if err != nil || t <= 0 {
		return 60 * time.Second
	}
	return t
}

// AgentConfig — настройки цикла оркестратора.
type AgentConfig struct {
	MaxTurns      int    `yaml:"max_turns"`       // Бюджет ходов на один запуск
	ToolTimeout   string `yaml:"tool_timeout"`    // Таймаут одного вызова инструмента ("30s")
	MaxToolOutput int    `yaml:"max_tool_output"` // Лимит символов вывода инструмента
	SystemPrompt  string `yaml:"system_prompt"`   // Преамбула (описание протокола вызова добавит runtime)
}

// ToolTimeoutDuration возвращает таймаут одного вызова инструмента.
func (c AgentConfig) ToolTimeoutDuration() time.Duration {
	t, err := time.ParseDuration(c.ToolTimeout)
	if err != nil || t <= 0 {
		return 30 * time.Second
	}
	return t
}

// ToolConfig — настройки инструментов.
type ToolConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Timeout     string `yaml:"timeout"` // Переопределяет agent.tool_timeout для этого инструмента
	Description string `yaml:"description"`
}

// HTTPConfig — настройки исходящих HTTP запросов (инструмент http_get).
type HTTPConfig struct {
	RateLimit        int    `yaml:"rate_limit"`         // Запросов в минуту
	BurstLimit       int    `yaml:"burst_limit"`        // Burst для rate limiter
	Timeout          string `yaml:"timeout"`            // Timeout для HTTP запросов (например, "30s")
	MaxResponseBytes int64  `yaml:"max_response_bytes"` // Лимит тела ответа
}

// GetDefaults возвращает дефолтные значения для незаполненных полей.
func (c *HTTPConfig) GetDefaults() HTTPConfig {
	result := *c // Копируем текущие значения

	if result.RateLimit == 0 {
		result.RateLimit = 60 // запросов в минуту
	}
	if result.BurstLimit == 0 {
		result.BurstLimit = 5
	}
	if result.Timeout == "" {
		result.Timeout = "30s"
	}
	if result.MaxResponseBytes == 0 {
		result.MaxResponseBytes = 1 << 20 // 1 MiB
	}

	return result
}

// TimeoutDuration возвращает таймаут одного HTTP запроса.
func (c HTTPConfig) TimeoutDuration() time.Duration {
	t, err := time.ParseDuration(c.Timeout)
	if err != nil || t <= 0 {
		return 30 * time.Second
	}
	return t
}

// S3Config — настройки объектного хранилища для отчётов.
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"` // Поддерживает ${VAR}
	SecretKey string `yaml:"secret_key"` // Поддерживает ${VAR}
	UseSSL    bool   `yaml:"use_ssl"`
	Prefix    string `yaml:"prefix"` // Корневой префикс ключей отчётов
}

// Enabled — хранилище настроено и инструмент save_report можно регистрировать.
func (c S3Config) Enabled() bool {
	return c.Endpoint != ""
}

// AppSpecific — общие настройки приложения.
type AppSpecific struct {
	Debug   bool   `yaml:"debug"`
	LogsDir string `yaml:"logs_dir"` // Директория для debug-трейсов
}

// Load читает YAML файл, подставляет ENV переменные и возвращает готовую структуру.
func Load(path string) (*AppConfig, error) {
	// 1. Проверяем существование файла
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found at: %s", path)
	}

	// 2. Читаем файл целиком
	rawBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// 3. Подставляем переменные окружения.
	// os.ExpandEnv заменяет ${VAR} или $VAR на значение из системы.
	contentWithEnv := os.ExpandEnv(string(rawBytes))

	// 4. Парсим YAML в структуру
	var cfg AppConfig
	if err := yaml.Unmarshal([]byte(contentWithEnv), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	// 5. Валидируем критические настройки
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// validate проверяет обязательные поля.
func (c *AppConfig) validate() error {
	if c.Models.Default != "" {
		if _, ok := c.Models.Definitions[c.Models.Default]; !ok {
			return fmt.Errorf("default model '%s' is not defined in definitions", c.Models.Default)
		}
	}
	// S3 опционален, но если указан endpoint — bucket обязателен
	if c.S3.Enabled() && c.S3.Bucket == "" {
		return fmt.Errorf("s3.bucket is required when s3.endpoint is set")
	}
	return nil
}

// GetModel возвращает конфигурацию модели по алиасу или по умолчанию.
func (c *AppConfig) GetModel(name string) (ModelDef, bool) {
	if name == "" {
		name = c.Models.Default
	}
	m, ok := c.Models.Definitions[name]
	return m, ok
}
