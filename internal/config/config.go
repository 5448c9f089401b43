package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode    bool          `env:"DEBUG_MODE"`    // Режим дебага (development-логгер)
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT"` // Таймаут одного запроса к API картинок

	// Эндпоинты провайдеров картинок
	DogAPIURL string `env:"DOG_API_URL"`
	CatAPIURL string `env:"CAT_API_URL"`
	FoxAPIURL string `env:"FOX_API_URL"`

	SkipVideo bool `env:"SKIP_VIDEO"` // Не показывать видео (mp4/webm) вместо картинки

	Server  ServerConfig
	Caption CaptionConfig
}

// ServerConfig конфигурация HTTP UI.
type ServerConfig struct {
	BindAddr string `env:"SERVER_BIND_ADDR"` // Адрес слушателя, напр. 127.0.0.1:8080
	Path     string `env:"SERVER_PATH"`      // Корневой путь страницы
}

// CaptionConfig конфигурация подписей к картинкам через OpenAI.
// Ключ берётся клиентом openai-go из OPENAI_API_KEY.
type CaptionConfig struct {
	Enabled bool   `env:"CAPTION_ENABLED"`
	Model   string `env:"CAPTION_MODEL"`
	Prompt  string `env:"CAPTION_PROMPT"`
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:    false,
		FetchTimeout: 5 * time.Second,
		DogAPIURL:    "https://random.dog/woof.json",
		CatAPIURL:    "https://api.thecatapi.com/v1/images/search",
		FoxAPIURL:    "https://randomfox.ca/floof/",
		SkipVideo:    true,
		Server: ServerConfig{
			BindAddr: "127.0.0.1:8080",
			Path:     "/",
		},
		Caption: CaptionConfig{
			Enabled: false,
			Model:   "gpt-4o",
			Prompt:  "Describe the animal in this picture in one short cheerful sentence.",
		},
	}
}

// NewConfig загружает конфигурацию приложения из .env, окружения и os.Args.
func NewConfig() *Config {
	_ = godotenv.Load()

	cfg, err := Load(flag.CommandLine, os.Args[1:])
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load стартует с дефолтов, перекрывает их окружением и флагами из args.
// Флаги регистрируются в fs, поэтому вызывающий может добавить свои до вызова.
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse env: %w", err)
	}

	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага (подробные логи)")
	fs.DurationVar(&cfg.FetchTimeout, "fetch-timeout", cfg.FetchTimeout, "таймаут запроса к API картинок, напр. 5s")
	fs.StringVar(&cfg.DogAPIURL, "dog-api-url", cfg.DogAPIURL, "эндпоинт API собак")
	fs.StringVar(&cfg.CatAPIURL, "cat-api-url", cfg.CatAPIURL, "эндпоинт API кошек")
	fs.StringVar(&cfg.FoxAPIURL, "fox-api-url", cfg.FoxAPIURL, "эндпоинт API лис")
	fs.BoolVar(&cfg.SkipVideo, "skip-video", cfg.SkipVideo, "не показывать видео-файлы (mp4/webm) вместо картинки")
	// Server
	fs.StringVar(&cfg.Server.BindAddr, "server-bind-addr", cfg.Server.BindAddr, "адрес для прослушивания UI (напр. 127.0.0.1:8080)")
	fs.StringVar(&cfg.Server.Path, "server-path", cfg.Server.Path, "HTTP путь страницы UI (напр. /)")
	// Подписи
	fs.BoolVar(&cfg.Caption.Enabled, "caption-enabled", cfg.Caption.Enabled, "подписывать картинки через OpenAI (нужен OPENAI_API_KEY)")
	fs.StringVar(&cfg.Caption.Model, "caption-model", cfg.Caption.Model, "модель OpenAI для подписей")
	fs.StringVar(&cfg.Caption.Prompt, "caption-prompt", cfg.Caption.Prompt, "промпт для подписи картинки")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет, что с конфигурацией вообще можно работать.
func (c *Config) Validate() error {
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("config: fetch timeout must be positive, got %s", c.FetchTimeout)
	}
	endpoints := map[string]string{
		"dog-api-url": c.DogAPIURL,
		"cat-api-url": c.CatAPIURL,
		"fox-api-url": c.FoxAPIURL,
	}
	for name, v := range endpoints {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("config: %s is empty", name)
		}
	}
	if strings.TrimSpace(c.Server.BindAddr) == "" {
		return errors.New("config: server bind addr is empty")
	}
	if c.Server.Path == "" || !strings.HasPrefix(c.Server.Path, "/") {
		return fmt.Errorf("config: server path must start with '/', got %q", c.Server.Path)
	}
	return nil
}
