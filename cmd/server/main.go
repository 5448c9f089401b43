package main

import (
	"AnimalPics/internal/adapter/web"
	"AnimalPics/internal/ai"
	"AnimalPics/internal/config"
	"AnimalPics/internal/service/animal"
	"context"
	"os/signal"
	"syscall"

	"github.com/openai/openai-go/v3"
	"go.uber.org/zap"
)

// HTTP UI: выбираешь животное, жмёшь кнопку, получаешь случайную картинку.
func main() {
	cfg := config.NewConfig()

	logger, err := newLogger(cfg.DebugMode)
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	sugar.Infow(
		"Starting app",
		"DebugMode", cfg.DebugMode,
		"FetchTimeout", cfg.FetchTimeout.String(),
		"CaptionEnabled", cfg.Caption.Enabled,
	)

	registry, err := animal.NewRegistry(animal.DefaultProviders(cfg)...)
	if err != nil {
		sugar.Fatalw("Invalid provider configuration", "error", err)
	}
	fetcher := animal.NewFetcher(registry, cfg.FetchTimeout, sugar)

	// По умолчанию подписи без сети; реальный клиент OpenAI берёт ключ из OPENAI_API_KEY
	var captioner ai.Captioner = ai.NewStubCaptioner()
	if cfg.Caption.Enabled {
		oClient := openai.NewClient()
		captioner = ai.NewVisionCaptioner(&oClient, cfg.Caption)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := web.New(cfg, registry.Providers(), fetcher, captioner, sugar)
	if err := srv.Start(ctx); err != nil {
		sugar.Fatalw("Failed to start UI", "error", err)
	}
	sugar.Infow("Open the UI in a browser", "url", "http://"+srv.Addr()+cfg.Server.Path)

	<-ctx.Done()
	if err := srv.Stop(context.WithoutCancel(ctx)); err != nil {
		sugar.Warnw("UI stop error", "error", err)
	}
	sugar.Infow("server stopped")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
