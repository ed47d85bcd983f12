package numerator

import (
	"context"
	"fmt"
	"sync/atomic"
)

// NewMockGenerator creates an in-memory generator counting from 1.
func NewMockGenerator(prefix string) *MockGenerator {
	return &MockGenerator{Prefix: prefix}
}

// MockGenerator is an in-memory Generator for tests.
type MockGenerator struct {
	Prefix  string
	counter atomic.Int64

	// NextFunc overrides the default behavior when set
	NextFunc func(ctx context.Context) (string, error)
}

func (m *MockGenerator) Next(ctx context.Context) (string, error) {
	if m.NextFunc != nil {
		return m.NextFunc(ctx)
	}
	prefix := m.Prefix
	if prefix == "" {
		prefix = "DOC"
	}
	return fmt.Sprintf("%s-%05d", prefix, m.counter.Add(1)), nil
}
