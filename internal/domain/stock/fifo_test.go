package stock

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doceria/internal/core/id"
	"doceria/internal/core/types"
)

func qty(v float64) types.Quantity { return types.NewQuantityFromFloat64(v) }

func TestPlanFIFO_SingleBatchCovers(t *testing.T) {
	b := BatchRemainder{BatchID: id.New(), Remaining: qty(10)}

	allocs, shortfall := PlanFIFO([]BatchRemainder{b}, qty(3))

	require.Len(t, allocs, 1)
	assert.Equal(t, b.BatchID, allocs[0].BatchID)
	assert.Equal(t, qty(3), allocs[0].Quantity)
	assert.True(t, shortfall.IsZero())
}

func TestPlanFIFO_SpansBatchesInOrder(t *testing.T) {
	first := BatchRemainder{BatchID: id.New(), Remaining: qty(2)}
	second := BatchRemainder{BatchID: id.New(), Remaining: qty(5)}

	allocs, shortfall := PlanFIFO([]BatchRemainder{first, second}, qty(4))

	require.Len(t, allocs, 2)
	assert.Equal(t, first.BatchID, allocs[0].BatchID)
	assert.Equal(t, qty(2), allocs[0].Quantity)
	assert.Equal(t, second.BatchID, allocs[1].BatchID)
	assert.Equal(t, qty(2), allocs[1].Quantity)
	assert.True(t, shortfall.IsZero())
}

func TestPlanFIFO_SkipsEmptyBatches(t *testing.T) {
	empty := BatchRemainder{BatchID: id.New(), Remaining: 0}
	full := BatchRemainder{BatchID: id.New(), Remaining: qty(5)}

	allocs, shortfall := PlanFIFO([]BatchRemainder{empty, full}, qty(1))

	require.Len(t, allocs, 1)
	assert.Equal(t, full.BatchID, allocs[0].BatchID)
	assert.True(t, shortfall.IsZero())
}

func TestPlanFIFO_Shortfall(t *testing.T) {
	b := BatchRemainder{BatchID: id.New(), Remaining: qty(2)}

	allocs, shortfall := PlanFIFO([]BatchRemainder{b}, qty(5))

	require.Len(t, allocs, 1)
	assert.Equal(t, qty(2), allocs[0].Quantity)
	assert.Equal(t, qty(3), shortfall)
}

func TestPlanFIFO_NoBatches(t *testing.T) {
	allocs, shortfall := PlanFIFO(nil, qty(5))

	assert.Empty(t, allocs)
	assert.Equal(t, qty(5), shortfall)
}

func TestPlanFIFO_ZeroNeeded(t *testing.T) {
	b := BatchRemainder{BatchID: id.New(), Remaining: qty(2)}

	allocs, shortfall := PlanFIFO([]BatchRemainder{b}, 0)

	assert.Empty(t, allocs)
	assert.True(t, shortfall.IsZero())
}
