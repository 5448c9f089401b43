package ai

import (
	"context"
	"fmt"
)

// StubCaptioner заглушка, которая не делает реальных запросов
type StubCaptioner struct{}

func NewStubCaptioner() *StubCaptioner { return &StubCaptioner{} }

func (c *StubCaptioner) Caption(_ context.Context, label, _ string) (string, error) {
	return DefaultCaption(label), nil
}

// DefaultCaption — подпись, которая показывается, когда модель недоступна.
func DefaultCaption(label string) string {
	return fmt.Sprintf("Ta-da! Here is your %s!", label)
}
