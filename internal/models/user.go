// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Plan represents a user's subscription tier.
type Plan string

const (
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

// Valid reports whether p is one of the known plan tiers.
func (p Plan) Valid() bool {
	return p == PlanFree || p == PlanPro
}

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// UserProfile represents a registered creator. The UID comes from the
// external identity gateway and is immutable; the profile is created on
// first sign-in together with the user's page.
type UserProfile struct {
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PageSlug    string    `json:"page_slug"`
	Plan        Plan      `json:"plan"`
	Role        Role      `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsAdmin returns true if the user has the admin role.
func (u *UserProfile) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsPro returns true if the user is on the paid plan.
func (u *UserProfile) IsPro() bool {
	return u.Plan == PlanPro
}
