package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// SequenceQuerier adapts the TxManager to the numerator's querier so
// document numbers are allocated through the ambient transaction when
// one is active.
type SequenceQuerier struct {
	tm *TxManager
}

func NewSequenceQuerier(tm *TxManager) *SequenceQuerier {
	return &SequenceQuerier{tm: tm}
}

func (q *SequenceQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return q.tm.GetQuerier(ctx).QueryRow(ctx, sql, args...)
}
