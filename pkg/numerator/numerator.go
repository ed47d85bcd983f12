// Package numerator generates sequential document numbers such as
// "OP-2026-00001", backed by a database sequence table.
package numerator

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"doceria/internal/core/apperror"
)

// Generator produces the next number in a document sequence.
type Generator interface {
	Next(ctx context.Context) (string, error)
}

// Querier is the minimal query surface the numerator needs. The
// implementation is expected to route through the ambient transaction
// when one is present, so numbers are allocated atomically with the
// document that carries them.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config controls number formatting.
type Config struct {
	// Prefix such as "OP" or "LC"
	Prefix string

	// IncludeYear inserts the current year, resetting the counter
	// when the year changes
	IncludeYear bool

	// PadWidth is the zero-padded counter width
	PadWidth int
}

func DefaultConfig(prefix string) Config {
	return Config{Prefix: prefix, IncludeYear: true, PadWidth: 5}
}

// Service allocates numbers from the sys_sequences table using an
// upsert, so concurrent callers serialize on the sequence row and no
// number is ever issued twice.
type Service struct {
	q   Querier
	cfg Config
}

func NewService(q Querier, cfg Config) *Service {
	return &Service{q: q, cfg: cfg}
}

func (s *Service) Next(ctx context.Context) (string, error) {
	key := s.cfg.Prefix
	year := time.Now().Year()
	if s.cfg.IncludeYear {
		key = fmt.Sprintf("%s-%d", s.cfg.Prefix, year)
	}

	var value int64
	err := s.q.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, value) VALUES ($1, 1)
		ON CONFLICT (key) DO UPDATE SET value = sys_sequences.value + 1
		RETURNING value`, key).Scan(&value)
	if err != nil {
		return "", apperror.NewDatabase("allocate sequence number", err)
	}

	if s.cfg.IncludeYear {
		return fmt.Sprintf("%s-%d-%0*d", s.cfg.Prefix, year, s.cfg.PadWidth, value), nil
	}
	return fmt.Sprintf("%s-%0*d", s.cfg.Prefix, s.cfg.PadWidth, value), nil
}
