package stock

import "doceria/internal/core/types"

// PlanFIFO walks batches in the given order (callers pass them
// oldest-first) allocating from each until the needed quantity is
// covered. Empty batches are skipped. Returns the allocations and the
// shortfall left uncovered; a zero shortfall means the plan is
// complete.
func PlanFIFO(batches []BatchRemainder, needed types.Quantity) ([]Allocation, types.Quantity) {
	var allocs []Allocation
	remaining := needed

	for _, b := range batches {
		if !remaining.IsPositive() {
			break
		}
		if !b.Remaining.IsPositive() {
			continue
		}
		take := types.Min(b.Remaining, remaining)
		allocs = append(allocs, Allocation{BatchID: b.BatchID, Quantity: take})
		remaining -= take
	}

	if remaining.IsNegative() {
		remaining = 0
	}
	return allocs, remaining
}
