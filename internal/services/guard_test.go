package services_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"counterpos/internal/domain"
	"counterpos/internal/services"
)

func TestGuardAuthorize(t *testing.T) {
	staff := func(role domain.Role, active bool) *domain.StaffUser {
		return &domain.StaffUser{ID: "u-" + string(role), Role: role, Active: active}
	}

	cases := []struct {
		name     string
		identity *domain.StaffUser
		required services.RoleSet
		allowed  bool
		reason   string
	}{
		{"no identity", nil, services.RolesSubmitSale, false, domain.ReasonUnauthenticated},
		{"no identity adjust", nil, services.RolesAdjustStock, false, domain.ReasonUnauthenticated},
		{"sales can sell", staff(domain.RoleSales, true), services.RolesSubmitSale, true, ""},
		{"manager can sell", staff(domain.RoleManager, true), services.RolesSubmitSale, true, ""},
		{"admin can adjust", staff(domain.RoleAdmin, true), services.RolesAdjustStock, true, ""},
		{"manager can adjust", staff(domain.RoleManager, true), services.RolesAdjustStock, true, ""},
		{"sales cannot adjust", staff(domain.RoleSales, true), services.RolesAdjustStock, false, domain.ReasonForbidden},
		{"inactive admin", staff(domain.RoleAdmin, false), services.RolesAdjustStock, false, domain.ReasonForbidden},
		{"inactive sales", staff(domain.RoleSales, false), services.RolesSubmitSale, false, domain.ReasonForbidden},
		{"unknown role", staff(domain.Role("owner"), true), services.RolesAuthenticated, false, domain.ReasonForbidden},
	}

	var g services.Guard
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := g.Authorize(tc.identity, tc.required)
			assert.Equal(t, tc.allowed, d.Allowed)
			assert.Equal(t, tc.reason, d.Reason)
			if tc.allowed {
				assert.NoError(t, d.Err())
				return
			}
			err := d.Err()
			assert.True(t, errors.Is(err, domain.ErrUnauthorized))
			var authErr *domain.AuthError
			if assert.True(t, errors.As(err, &authErr)) {
				assert.Equal(t, tc.reason, authErr.Reason)
			}
		})
	}
}
