package billing

import (
	"github.com/shopspring/decimal"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/pkg/apperror"
)

// Discount is a validated, authorized discount ready to be applied to an
// order. AppliedByRole records the actor's role at application time for
// audit purposes.
type Discount struct {
	Kind          enum.DiscountKind
	Value         decimal.Decimal
	AppliedByRole enum.Role
}

// Amount returns the monetary value the discount removes from the given
// subtotal, rounded to two fractional digits.
func (d Discount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	if d.Kind == enum.DiscountKindPercentage {
		return ApplyRate(subtotal, d.Value)
	}
	return Round(d.Value)
}

// discountTier maps an effective-percentage bracket to the minimum role that
// may apply a discount in that bracket. Brackets are checked in order; the
// first matching one wins.
type discountTier struct {
	// upper bound of the bracket; exclusive unless inclusive is set
	limit     decimal.Decimal
	inclusive bool
	minRole   enum.Role
}

var discountTiers = []discountTier{
	{limit: decimal.NewFromInt(10), inclusive: false, minRole: enum.RoleCashier},
	{limit: decimal.NewFromInt(50), inclusive: true, minRole: enum.RoleAdmin},
	{limit: decimal.NewFromInt(100), inclusive: true, minRole: enum.RoleOwner},
}

// minRoleRemoveDiscount is the floor for removing any discount, regardless of
// the tier at which it was applied. The policy is deliberately asymmetric: a
// cashier who could apply a small discount cannot remove a large one someone
// else applied.
const minRoleRemoveDiscount = enum.RoleAdmin

// EffectivePercentage computes the discount as a percentage of the subtotal.
// Fixed-amount discounts require a positive subtotal and must not exceed it.
func EffectivePercentage(kind enum.DiscountKind, value, subtotal decimal.Decimal) (decimal.Decimal, error) {
	switch kind {
	case enum.DiscountKindPercentage:
		if value.Sign() < 0 || value.Cmp(decimal.NewFromInt(100)) >= 0 {
			return decimal.Zero, apperror.NewInvalidDiscountError(
				"Percentage discount must be at least 0 and below 100")
		}
		return value, nil
	case enum.DiscountKindFixedAmount:
		if value.Sign() < 0 {
			return decimal.Zero, apperror.NewInvalidDiscountError(
				"Fixed-amount discount must not be negative")
		}
		if subtotal.Sign() <= 0 {
			return decimal.Zero, apperror.NewInvalidDiscountError(
				"Fixed-amount discount requires a positive subtotal")
		}
		if value.Cmp(subtotal) > 0 {
			return decimal.Zero, apperror.NewInvalidDiscountError(
				"Fixed-amount discount exceeds the order subtotal")
		}
		return value.Div(subtotal).Mul(decimal.NewFromInt(100)), nil
	default:
		return decimal.Zero, apperror.NewInvalidDiscountError("Unknown discount kind")
	}
}

// requiredRole returns the minimum role for an effective percentage.
func requiredRole(p decimal.Decimal) enum.Role {
	for _, tier := range discountTiers {
		if c := p.Cmp(tier.limit); c < 0 || (c == 0 && tier.inclusive) {
			return tier.minRole
		}
	}
	return enum.RoleOwner
}

// AuthorizeDiscount decides whether actor may apply the requested discount
// against the given subtotal. On success it returns the Discount with the
// actor's role stamped on it for audit.
func AuthorizeDiscount(actor enum.Role, kind enum.DiscountKind, value, subtotal decimal.Decimal) (Discount, error) {
	p, err := EffectivePercentage(kind, value, subtotal)
	if err != nil {
		return Discount{}, err
	}

	min := requiredRole(p)
	if !actor.AtLeast(min) {
		return Discount{}, apperror.NewInsufficientRoleError(actor.String(), min.String())
	}

	return Discount{Kind: kind, Value: value, AppliedByRole: actor}, nil
}

// AuthorizeDiscountRemoval decides whether actor may remove an applied
// discount.
func AuthorizeDiscountRemoval(actor enum.Role) error {
	if !actor.AtLeast(minRoleRemoveDiscount) {
		return apperror.NewInsufficientRoleError(actor.String(), minRoleRemoveDiscount.String())
	}
	return nil
}

// Revalidate checks that an applied discount still satisfies its constraints
// against a changed subtotal. A fixed-amount discount larger than the new
// subtotal fails closed rather than being silently adjusted.
func (d Discount) Revalidate(subtotal decimal.Decimal) error {
	_, err := EffectivePercentage(d.Kind, d.Value, subtotal)
	if err != nil {
		return apperror.NewDiscountInvalidatedError(d.Value.StringFixed(2), subtotal.StringFixed(2))
	}
	return nil
}
