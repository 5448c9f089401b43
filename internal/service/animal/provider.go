package animal

import (
	"AnimalPics/internal/config"
	"errors"
	"fmt"
	"strings"
)

// Категории, доступные по умолчанию.
const (
	CategoryDog = "dog"
	CategoryCat = "cat"
	CategoryFox = "fox"
)

// ProviderConfig описывает, как достучаться до одного API картинок и как разобрать его ответ.
// Создаётся один раз при старте и больше не меняется.
type ProviderConfig struct {
	Category string        // Идентификатор категории, напр. "dog"
	Label    string        // Человекочитаемое название для UI
	Endpoint string        // URL для GET-запроса
	Shape    ResponseShape // Где в ответе лежит ссылка на картинку
}

// DefaultProviders возвращает набор провайдеров с эндпоинтами из конфигурации.
func DefaultProviders(cfg *config.Config) []ProviderConfig {
	return []ProviderConfig{
		{Category: CategoryDog, Label: "Dog", Endpoint: cfg.DogAPIURL, Shape: Flat("url")},
		{Category: CategoryCat, Label: "Cat", Endpoint: cfg.CatAPIURL, Shape: FirstOfArray("url")},
		{Category: CategoryFox, Label: "Fox", Endpoint: cfg.FoxAPIURL, Shape: Flat("image")},
	}
}

// Registry — закрытый упорядоченный набор провайдеров. Только для чтения,
// поэтому безопасен для одновременного использования.
type Registry struct {
	order      []string
	byCategory map[string]ProviderConfig
}

// NewRegistry проверяет провайдеров и собирает из них реестр.
func NewRegistry(providers ...ProviderConfig) (*Registry, error) {
	if len(providers) == 0 {
		return nil, errors.New("animal registry: no providers")
	}
	r := &Registry{
		order:      make([]string, 0, len(providers)),
		byCategory: make(map[string]ProviderConfig, len(providers)),
	}
	for i, p := range providers {
		if strings.TrimSpace(p.Category) == "" {
			return nil, fmt.Errorf("animal registry: provider #%d has empty category", i)
		}
		if strings.TrimSpace(p.Endpoint) == "" {
			return nil, fmt.Errorf("animal registry: %s: empty endpoint", p.Category)
		}
		if err := p.Shape.validate(); err != nil {
			return nil, fmt.Errorf("animal registry: %s: %w", p.Category, err)
		}
		if _, dup := r.byCategory[p.Category]; dup {
			return nil, fmt.Errorf("animal registry: duplicate category %q", p.Category)
		}
		if p.Label == "" {
			p.Label = p.Category
		}
		r.order = append(r.order, p.Category)
		r.byCategory[p.Category] = p
	}
	return r, nil
}

// Lookup возвращает провайдера категории.
func (r *Registry) Lookup(category string) (ProviderConfig, bool) {
	p, ok := r.byCategory[category]
	return p, ok
}

// Categories возвращает категории в порядке регистрации.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Providers возвращает провайдеров в порядке регистрации.
func (r *Registry) Providers() []ProviderConfig {
	out := make([]ProviderConfig, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.byCategory[c])
	}
	return out
}
