// Package budget computes the rolling daily allowance and tracks spend against it.
//
// The daily limit is never stored. It is derived on every read from the
// wallet balance and the number of days left until the month-end date.
package budget

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/zenith/internal/dates"
	"github.com/theirongolddev/zenith/internal/model"
)

// DefaultBalance is the wallet balance restored by Reset.
const DefaultBalance = 6787

const overLimitEpsilon = 1e-4

// DaysRemainingInclusive counts days from today through end, floored at 1.
func DaysRemainingInclusive(end, today string) int {
	return dates.DaysRemainingInclusive(end, today)
}

// DailyLimit spreads balance evenly over daysLeft.
func DailyLimit(balance float64, daysLeft int) float64 {
	if daysLeft <= 0 {
		return balance
	}
	return balance / float64(daysLeft)
}

// TodaysSpend sums the amounts of transactions dated today.
func TodaysSpend(txns []model.Transaction, today string) float64 {
	sum := decimal.Zero
	for _, t := range txns {
		if t.Date == today {
			sum = sum.Add(decimal.NewFromFloat(t.Amount))
		}
	}
	return sum.InexactFloat64()
}

// OverLimit reports whether spend exceeds limit by more than float noise.
func OverLimit(spend, limit float64) bool {
	return spend > limit+overLimitEpsilon
}

// PerDayDrop is how much a one-off purchase lowers each remaining day's limit.
func PerDayDrop(amount float64, daysLeft int) int {
	if daysLeft < 1 {
		daysLeft = 1
	}
	return int(math.Round(amount / float64(daysLeft)))
}

// validAmount rejects NaN, infinities, zero, and negatives.
func validAmount(a float64) bool {
	return !math.IsNaN(a) && !math.IsInf(a, 0) && a > 0
}

// subClamp and add do balance arithmetic in decimal so that repeated
// changes never drift. The amount moves the balance exactly as recorded.
func subClamp(balance, amount float64) float64 {
	b := decimal.NewFromFloat(balance).Sub(decimal.NewFromFloat(amount))
	if b.IsNegative() {
		return 0
	}
	return b.InexactFloat64()
}

func add(balance, amount float64) float64 {
	return decimal.NewFromFloat(balance).Add(decimal.NewFromFloat(amount)).InexactFloat64()
}
