package ai

import "context"

// Captioner придумывает подпись к картинке. Все реализации должны быть взаимозаменяемыми.
type Captioner interface {
	Caption(ctx context.Context, label string, imageURL string) (string, error)
}
