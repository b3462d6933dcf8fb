package validation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	DistributionEntity = "ItemDistribution"
	PlannedItemEntity  = "PlannedItem"
)

// ConserveQuantity checks that moving a distribution from prior to next keeps
// the distributed total within planned. currentSum is the persisted sum of all
// distributions of the planned item, including the one being updated; prior
// is that record's persisted quantity, or zero on create. It returns the
// headroom left after the write.
func ConserveQuantity(planned, currentSum, prior, next decimal.Decimal) (decimal.Decimal, error) {
	total := currentSum.Sub(prior).Add(next)
	if total.GreaterThan(planned) {
		return decimal.Zero, &InvariantViolationError{
			Entity: DistributionEntity,
			Field:  "quantity",
			Value:  next.String(),
			Reason: fmt.Sprintf("distributed total %s would exceed planned quantity %s (remaining %s)",
				total.String(), planned.String(), planned.Sub(currentSum.Sub(prior)).String()),
		}
	}
	return planned.Sub(total), nil
}

// CoverDistributed checks that a planned quantity still covers what has
// already been distributed against it.
func CoverDistributed(planned, distributed decimal.Decimal) error {
	if planned.LessThan(distributed) {
		return &InvariantViolationError{
			Entity: PlannedItemEntity,
			Field:  "plannedQuantity",
			Value:  planned.String(),
			Reason: fmt.Sprintf("already distributed %s exceeds the new planned quantity", distributed.String()),
		}
	}
	return nil
}
