package enum

// DiscountKind represents how a discount value is interpreted.
type DiscountKind string

const (
	DiscountKindPercentage  DiscountKind = "PERCENTAGE"
	DiscountKindFixedAmount DiscountKind = "FIXED_AMOUNT"
)

// Valid reports whether k is a known discount kind.
func (k DiscountKind) Valid() bool {
	return k == DiscountKindPercentage || k == DiscountKindFixedAmount
}
