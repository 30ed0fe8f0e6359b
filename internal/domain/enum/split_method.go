package enum

// SplitMethod represents how a bill is partitioned across diners.
type SplitMethod string

const (
	SplitMethodEqual  SplitMethod = "EQUAL"
	SplitMethodCustom SplitMethod = "CUSTOM"
	// SplitMethodByItem is reserved for future work. The calculator rejects
	// it rather than silently falling back to EQUAL.
	SplitMethodByItem SplitMethod = "BY_ITEM"
)

// Valid reports whether m is a known split method.
func (m SplitMethod) Valid() bool {
	return m == SplitMethodEqual || m == SplitMethodCustom || m == SplitMethodByItem
}
