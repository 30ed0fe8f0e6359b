package enum

// Role represents a staff member's role within a store.
type Role string

const (
	RoleKitchen Role = "KITCHEN"
	RoleCashier Role = "CASHIER"
	RoleAdmin   Role = "ADMIN"
	RoleOwner   Role = "OWNER"
)

// roleRank orders roles by authority. Unknown roles rank below everything.
var roleRank = map[Role]int{
	RoleKitchen: 0,
	RoleCashier: 1,
	RoleAdmin:   2,
	RoleOwner:   3,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r carries at least the authority of min.
func (r Role) AtLeast(min Role) bool {
	rr, ok := roleRank[r]
	if !ok {
		return false
	}
	return rr >= roleRank[min]
}

func (r Role) String() string {
	return string(r)
}

// ParseRole converts a string into a Role, returning false for unknown values.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}
