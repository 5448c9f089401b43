package main

import (
	"AnimalPics/internal/config"
	"AnimalPics/internal/service/animal"
	"AnimalPics/internal/service/media"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Утилита командной строки: один запрос к API выбранного животного, ссылка в stdout.
// Коды выхода: 0 — успех, 1 — ошибка сети/ответа, 2 — неизвестная категория.
func main() {
	var (
		category string
		list     bool
	)
	flag.StringVar(&category, "animal", animal.CategoryDog, "категория животного (dog|cat|fox)")
	flag.BoolVar(&list, "list", false, "показать доступные категории и выйти")

	cfg := config.NewConfig()

	logger, err := newLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() { _ = logger.Sync() }()

	registry, err := animal.NewRegistry(animal.DefaultProviders(cfg)...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка конфигурации:", err)
		os.Exit(1)
	}

	if list {
		for _, p := range registry.Providers() {
			fmt.Printf("%-6s %s (%s)\n", p.Category, p.Label, p.Endpoint)
		}
		return
	}

	fetcher := animal.NewFetcher(registry, cfg.FetchTimeout, sugar)
	res := fetcher.Fetch(context.Background(), strings.ToLower(strings.TrimSpace(category)))
	code := report(res, cfg.SkipVideo)
	_ = logger.Sync()
	os.Exit(code)
}

// report печатает результат и возвращает код выхода.
func report(res animal.Result, skipVideo bool) int {
	if !res.OK() {
		fmt.Fprintln(os.Stderr, "Не удалось получить картинку:", res.Message())
		if res.Kind() == animal.UnknownCategory {
			return 2
		}
		return 1
	}
	if skipVideo && media.IsVideo(res.ImageURL) {
		fmt.Fprintln(os.Stderr, "API вернул видео вместо картинки, попробуйте ещё раз:", res.ImageURL)
		return 1
	}
	fmt.Println(res.ImageURL)
	return 0
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	// Для CLI достаточно предупреждений в stderr
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}
