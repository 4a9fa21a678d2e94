package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveProfile(t *testing.T) {
	tests := []struct {
		name   string
		user   User
		wantOK bool
	}{
		{"customer with customer profile", User{Role: RoleCustomer, CustomerProfile: &CustomerProfile{}}, true},
		{"kasir with kasir profile", User{Role: RoleKasir, KasirProfile: &KasirProfile{}}, true},
		{"admin with admin profile", User{Role: RoleAdmin, AdminProfile: &AdminProfile{}}, true},
		{"kasir without profile", User{Role: RoleKasir}, false},
		{"kasir with customer profile", User{Role: RoleKasir, CustomerProfile: &CustomerProfile{}}, false},
		{"admin with two profiles", User{Role: RoleAdmin, AdminProfile: &AdminProfile{}, KasirProfile: &KasirProfile{}}, false},
		{"unknown role", User{Role: Role("GUEST"), CustomerProfile: &CustomerProfile{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, ok := tt.user.ActiveProfile()

			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.user.Role, profile.ProfileRole())
			} else {
				assert.Nil(t, profile)
			}
		})
	}
}

func TestRoleDashboardPath(t *testing.T) {
	assert.Equal(t, "/dashboard/customer", RoleCustomer.DashboardPath())
	assert.Equal(t, "/dashboard/kasir", RoleKasir.DashboardPath())
	assert.Equal(t, "/dashboard/admin", RoleAdmin.DashboardPath())
}
