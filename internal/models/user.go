package models

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleKasir    Role = "KASIR"
	RoleAdmin    Role = "ADMIN"
)

// Roles lists every role, used for routes open to any signed-in user.
var Roles = []Role{RoleCustomer, RoleKasir, RoleAdmin}

// DashboardPath is where the frontend sends a user after login.
func (r Role) DashboardPath() string {
	return "/dashboard/" + strings.ToLower(string(r))
}

type User struct {
	Model
	Name           string  `gorm:"type:varchar(100);not null" json:"name"`
	Email          string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash   string  `gorm:"type:varchar(255);not null" json:"-"`
	Role           Role    `gorm:"type:varchar(20);not null;index" json:"role"`
	Phone          *string `gorm:"type:varchar(20)" json:"phone"`
	ProfilePicture *string `gorm:"type:varchar(500)" json:"profilePicture"`
	// IsActive is the only flag deciding whether the account can sign in.
	IsActive bool `gorm:"not null" json:"isActive"`

	CustomerProfile *CustomerProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"customerProfile,omitempty"`
	KasirProfile    *KasirProfile    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"kasirProfile,omitempty"`
	AdminProfile    *AdminProfile    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"adminProfile,omitempty"`
}

type CustomerProfile struct {
	Model
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	LoyaltyPoints int       `gorm:"not null" json:"loyaltyPoints"`
	MemberID      string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"memberId"`
}

type KasirProfile struct {
	Model
	UserID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	ShiftStart string    `gorm:"type:varchar(20)" json:"shiftStart"`
	ShiftEnd   string    `gorm:"type:varchar(20)" json:"shiftEnd"`
	TodayOrder int       `gorm:"not null;default:0" json:"todayOrder"`
}

type AdminProfile struct {
	Model
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Permissions []string  `gorm:"type:text;serializer:json" json:"permissions"`
}

// Profile is the role-specific record attached to a user. Exactly one
// variant exists per user and it must match the user's role.
type Profile interface {
	ProfileRole() Role
}

func (*CustomerProfile) ProfileRole() Role { return RoleCustomer }
func (*KasirProfile) ProfileRole() Role    { return RoleKasir }
func (*AdminProfile) ProfileRole() Role    { return RoleAdmin }

// ActiveProfile returns the profile matching the user's role. It reports
// false when that profile is missing, when a profile of another role is
// also attached, or when the role is unknown.
func (u *User) ActiveProfile() (Profile, bool) {
	present := 0
	if u.CustomerProfile != nil {
		present++
	}
	if u.KasirProfile != nil {
		present++
	}
	if u.AdminProfile != nil {
		present++
	}
	if present != 1 {
		return nil, false
	}

	switch u.Role {
	case RoleCustomer:
		if u.CustomerProfile != nil {
			return u.CustomerProfile, true
		}
	case RoleKasir:
		if u.KasirProfile != nil {
			return u.KasirProfile, true
		}
	case RoleAdmin:
		if u.AdminProfile != nil {
			return u.AdminProfile, true
		}
	}
	return nil, false
}
