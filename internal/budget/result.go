package budget

// AddResult says whether an add was applied and, if not, why.
type AddResult int

const (
	Accepted AddResult = iota
	RejectedInvalidAmount
	RejectedEmptyLabel
	RejectedInvalidDate
	RejectedUnknownButton
)

func (r AddResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectedInvalidAmount:
		return "invalid amount"
	case RejectedEmptyLabel:
		return "empty label"
	case RejectedInvalidDate:
		return "invalid date"
	case RejectedUnknownButton:
		return "unknown button"
	default:
		return "unknown"
	}
}

// OK reports whether the add was applied.
func (r AddResult) OK() bool { return r == Accepted }

// RefundPolicy decides what deleting a transaction gives back to the wallet.
type RefundPolicy string

const (
	// RefundAlways credits every deleted amount, including backdated entries
	// that never reduced the balance.
	RefundAlways RefundPolicy = "always"
	// RefundDeductedOnly credits only amounts that were deducted on add.
	RefundDeductedOnly RefundPolicy = "deducted-only"
)

// ParseRefundPolicy falls back to RefundAlways for unknown values.
func ParseRefundPolicy(s string) RefundPolicy {
	if RefundPolicy(s) == RefundDeductedOnly {
		return RefundDeductedOnly
	}
	return RefundAlways
}
