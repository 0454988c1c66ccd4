package models

import (
	"time"
)

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleSeller   UserRole = "seller"
	RoleCustomer UserRole = "customer"
)

// ParseUserRole validates a role coming from client input against the closed set.
func ParseUserRole(s string) (UserRole, bool) {
	switch UserRole(s) {
	case RoleAdmin, RoleSeller, RoleCustomer:
		return UserRole(s), true
	}
	return "", false
}

type User struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	FirstName     string     `json:"first_name" gorm:"size:30;not null"`
	LastName      string     `json:"last_name" gorm:"size:30;not null"`
	Email         string     `json:"email" gorm:"unique;not null"`
	Password      string     `json:"-" gorm:"not null"`
	Role          UserRole   `json:"role" gorm:"size:10;not null"`
	MobileNo      string     `json:"mobile_no" gorm:"size:20"`
	IsVerified    bool       `json:"is_verified" gorm:"default:false"`
	OTP           *string    `json:"-" gorm:"size:6"`
	OTPCreatedAt  *time.Time `json:"-"`
	ProfileImage  string     `json:"profile_image"`
	AcceptedTerms bool       `json:"accepted_terms" gorm:"default:false"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsStaff reports whether the user may bypass author-only restrictions.
func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
