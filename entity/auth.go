package entity

import (
	"HereToHelp/internal/lib/validate"
	"slices"
)

// Auth is the identity shown on the landing page.
type Auth struct {
	AuthName     string `json:"auth_name"`
	IsAdmin      bool   `json:"is_admin"`
	IsAuthorised bool   `json:"is_authorised"`
}

// TokenClaims is the payload of the staff single sign-on cookie.
type TokenClaims struct {
	Name   string   `json:"name" validate:"omitempty"`
	Email  string   `json:"email" validate:"omitempty,email"`
	Groups []string `json:"groups" validate:"omitempty,dive,required"`
}

func (c *TokenClaims) Validate() error {
	return validate.Struct(c)
}

// ToAuth resolves the flags from the configured user and admin groups.
func (c *TokenClaims) ToAuth(userGroup, adminGroup string) *Auth {
	auth := &Auth{AuthName: c.Name}
	if adminGroup != "" && slices.Contains(c.Groups, adminGroup) {
		auth.IsAdmin = true
		auth.IsAuthorised = true
	}
	if userGroup != "" && slices.Contains(c.Groups, userGroup) {
		auth.IsAuthorised = true
	}
	return auth
}
