package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablewise/tablewise-api/internal/domain/enum"
	"github.com/tablewise/tablewise-api/pkg/apperror"
)

func TestAuthorizeDiscount_Tiers(t *testing.T) {
	subtotal := dec("100.00")

	tests := []struct {
		name     string
		actor    enum.Role
		kind     enum.DiscountKind
		value    string
		wantKind apperror.Kind // empty means success expected
	}{
		{"cashier small percentage", enum.RoleCashier, enum.DiscountKindPercentage, "5", ""},
		{"cashier at ten percent", enum.RoleCashier, enum.DiscountKindPercentage, "10", apperror.KindInsufficientRole},
		{"admin at ten percent", enum.RoleAdmin, enum.DiscountKindPercentage, "10", ""},
		{"admin at fifty percent", enum.RoleAdmin, enum.DiscountKindPercentage, "50", ""},
		{"admin above fifty percent", enum.RoleAdmin, enum.DiscountKindPercentage, "60", apperror.KindInsufficientRole},
		{"owner above fifty percent", enum.RoleOwner, enum.DiscountKindPercentage, "60", ""},
		{"cashier sixty percent", enum.RoleCashier, enum.DiscountKindPercentage, "60", apperror.KindInsufficientRole},
		{"kitchen any discount", enum.RoleKitchen, enum.DiscountKindPercentage, "1", apperror.KindInsufficientRole},
		{"cashier small fixed", enum.RoleCashier, enum.DiscountKindFixedAmount, "5.00", ""},
		{"cashier mid fixed", enum.RoleCashier, enum.DiscountKindFixedAmount, "25.00", apperror.KindInsufficientRole},
		{"owner large fixed", enum.RoleOwner, enum.DiscountKindFixedAmount, "75.00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := AuthorizeDiscount(tt.actor, tt.kind, dec(tt.value), subtotal)
			if tt.wantKind == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.actor, d.AppliedByRole)
				assert.Equal(t, tt.kind, d.Kind)
			} else {
				assert.True(t, apperror.IsKind(err, tt.wantKind), "got %v", err)
			}
		})
	}
}

func TestAuthorizeDiscount_InsufficientRoleNamesMinimumRole(t *testing.T) {
	_, err := AuthorizeDiscount(enum.RoleCashier, enum.DiscountKindPercentage, dec("60"), dec("100.00"))
	require.Error(t, err)

	appErr := apperror.GetAppError(err)
	assert.Equal(t, apperror.KindInsufficientRole, appErr.Kind)
	assert.Equal(t, "OWNER", appErr.Details["required_role"])
	assert.Equal(t, "CASHIER", appErr.Details["actor_role"])
}

func TestAuthorizeDiscount_InvalidValues(t *testing.T) {
	subtotal := dec("100.00")

	_, err := AuthorizeDiscount(enum.RoleOwner, enum.DiscountKindPercentage, dec("100"), subtotal)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidDiscount))

	_, err = AuthorizeDiscount(enum.RoleOwner, enum.DiscountKindPercentage, dec("-1"), subtotal)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidDiscount))

	// Fixed amount above subtotal fails regardless of role.
	_, err = AuthorizeDiscount(enum.RoleOwner, enum.DiscountKindFixedAmount, dec("150.00"), subtotal)
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidDiscount))

	// Fixed amount against a zero subtotal fails.
	_, err = AuthorizeDiscount(enum.RoleOwner, enum.DiscountKindFixedAmount, dec("10.00"), dec("0"))
	assert.True(t, apperror.IsKind(err, apperror.KindInvalidDiscount))
}

func TestAuthorizeDiscountRemoval_AsymmetricPolicy(t *testing.T) {
	// A cashier may apply a small discount but may not remove any discount.
	_, err := AuthorizeDiscount(enum.RoleCashier, enum.DiscountKindPercentage, dec("5"), dec("100.00"))
	require.NoError(t, err)

	err = AuthorizeDiscountRemoval(enum.RoleCashier)
	assert.True(t, apperror.IsKind(err, apperror.KindInsufficientRole))

	assert.NoError(t, AuthorizeDiscountRemoval(enum.RoleAdmin))
	assert.NoError(t, AuthorizeDiscountRemoval(enum.RoleOwner))
}

func TestDiscountAmount(t *testing.T) {
	d := Discount{Kind: enum.DiscountKindPercentage, Value: dec("10")}
	assert.True(t, d.Amount(dec("100.00")).Equal(dec("10.00")))

	d = Discount{Kind: enum.DiscountKindFixedAmount, Value: dec("12.50")}
	assert.True(t, d.Amount(dec("100.00")).Equal(dec("12.50")))
}

func TestRevalidate_FailsClosedWhenSubtotalShrinks(t *testing.T) {
	d := Discount{Kind: enum.DiscountKindFixedAmount, Value: dec("50.00")}

	assert.NoError(t, d.Revalidate(dec("80.00")))

	err := d.Revalidate(dec("40.00"))
	assert.True(t, apperror.IsKind(err, apperror.KindDiscountInvalidated))
}
