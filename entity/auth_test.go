package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenClaims_ToAuth(t *testing.T) {
	tests := []struct {
		name   string
		groups []string
		want   Auth
	}{
		{"no groups", nil, Auth{AuthName: "Sam"}},
		{"user group", []string{"staff", "h2h-users"}, Auth{AuthName: "Sam", IsAuthorised: true}},
		{"admin group", []string{"h2h-admins"}, Auth{AuthName: "Sam", IsAuthorised: true, IsAdmin: true}},
		{"unrelated group", []string{"finance"}, Auth{AuthName: "Sam"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims := TokenClaims{Name: "Sam", Groups: tt.groups}
			assert.Equal(t, tt.want, *claims.ToAuth("h2h-users", "h2h-admins"))
		})
	}
}

func TestTokenClaims_Validate(t *testing.T) {
	assert.NoError(t, (&TokenClaims{Name: "Sam", Email: "sam@hackney.gov.uk"}).Validate())
	assert.Error(t, (&TokenClaims{Email: "not-an-email"}).Validate())
	assert.Error(t, (&TokenClaims{Groups: []string{""}}).Validate())
}
