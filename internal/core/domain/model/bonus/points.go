package bonus

import (
	"fmt"
	"math"

	"orderflow/internal/pkg/errs"

	"github.com/govalues/decimal"
)

// CancellationPenalty is deducted when a commissioner cancels an order whose
// invitations were already answered.
const CancellationPenalty int64 = 50

// PointsForCompletedOrder is floor(budget / 10).
func PointsForCompletedOrder(budget decimal.Decimal) (int64, error) {
	if budget.IsNeg() {
		return 0, errs.NewValueIsInvalidErrorWithCause("budget is invalid", fmt.Errorf("%s is negative", budget))
	}
	q, err := budget.Quo(decimal.Ten)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("budget is invalid", err)
	}
	whole, _, ok := q.Floor(0).Int64(0)
	if !ok {
		return 0, errs.NewValueIsOutOfRangeError("budget", budget, 0, "int64")
	}
	return whole, nil
}

// AddPoints applies delta and clamps the result to [0, math.MaxInt64].
func AddPoints(current, delta int64) int64 {
	if delta > 0 && current > math.MaxInt64-delta {
		return math.MaxInt64
	}
	if delta < 0 && current < math.MinInt64-delta {
		return 0
	}
	if next := current + delta; next > 0 {
		return next
	}
	return 0
}
