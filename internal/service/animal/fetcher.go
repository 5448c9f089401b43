package animal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultTimeout ограничивает один запрос к API картинок.
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 1 << 20
)

// Fetcher получает одну случайную ссылку на картинку для категории.
// Без кеша и без повторов: каждый вызов Fetch — ровно один GET.
type Fetcher struct {
	registry *Registry
	http     *http.Client
	logger   *zap.SugaredLogger
}

func NewFetcher(registry *Registry, timeout time.Duration, logger *zap.SugaredLogger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		registry: registry,
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// Registry возвращает реестр провайдеров, с которым работает Fetcher.
func (f *Fetcher) Registry() *Registry { return f.registry }

// Fetch выполняет запрос к провайдеру категории и нормализует ответ.
// Все ошибки возвращаются внутри Result, ничего не паникует.
func (f *Fetcher) Fetch(ctx context.Context, category string) Result {
	p, ok := f.registry.Lookup(category)
	if !ok {
		f.logger.Warnw("Unknown animal category", "category", category)
		return failure(category, UnknownCategory, fmt.Errorf("category %q is not configured", category))
	}

	start := time.Now()
	res := f.fetch(ctx, p)
	if res.Err != nil {
		f.logger.Warnw("Animal image fetch failed",
			"category", p.Category,
			"endpoint", p.Endpoint,
			"kind", res.Err.Kind.String(),
			"duration", time.Since(start).String(),
			"error", res.Err.Err,
		)
		return res
	}
	f.logger.Infow("Animal image fetched",
		"category", p.Category,
		"endpoint", p.Endpoint,
		"url", res.ImageURL,
		"duration", time.Since(start).String(),
	)
	return res
}

func (f *Fetcher) fetch(ctx context.Context, p ProviderConfig) Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.Endpoint, nil)
	if err != nil {
		return failure(p.Category, NetworkError, fmt.Errorf("build request: %w", err))
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return failure(p.Category, NetworkError, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return failure(p.Category, NetworkError, fmt.Errorf("status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(b)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return failure(p.Category, NetworkError, fmt.Errorf("read body: %w", err))
	}
	if len(body) > maxBodyBytes {
		return failure(p.Category, MalformedResponse, errors.New("response body too large"))
	}

	imageURL, err := p.Shape.Extract(body)
	if err != nil {
		return failure(p.Category, MalformedResponse, err)
	}
	return success(p.Category, imageURL)
}
