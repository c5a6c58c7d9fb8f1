package services

import "counterpos/internal/domain"

// RoleSet is the set of roles an operation accepts.
type RoleSet map[domain.Role]struct{}

func Roles(rs ...domain.Role) RoleSet {
	set := make(RoleSet, len(rs))
	for _, r := range rs {
		set[r] = struct{}{}
	}
	return set
}

func (s RoleSet) Has(r domain.Role) bool {
	_, ok := s[r]
	return ok
}

// Required role sets per operation.
var (
	RolesSubmitSale    = Roles(domain.RoleAdmin, domain.RoleManager, domain.RoleSales)
	RolesAdjustStock   = Roles(domain.RoleAdmin, domain.RoleManager)
	RolesAuthenticated = Roles(domain.RoleAdmin, domain.RoleManager, domain.RoleSales)
)

type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns nil for an allow and a *domain.AuthError otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return &domain.AuthError{Reason: d.Reason}
}

// Guard is the single authorization policy. It holds no state.
type Guard struct{}

func (Guard) Authorize(identity *domain.StaffUser, required RoleSet) Decision {
	switch {
	case identity == nil:
		return Decision{Reason: domain.ReasonUnauthenticated}
	case !identity.Active:
		return Decision{Reason: domain.ReasonForbidden}
	case !required.Has(identity.Role):
		return Decision{Reason: domain.ReasonForbidden}
	}
	return Decision{Allowed: true}
}
