package sessiongate_test

import (
	"testing"

	sessiongate "github.com/goliatone/go-sessiongate"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	role, ok := sessiongate.ParseRole("admin")
	assert.True(t, ok)
	assert.Equal(t, sessiongate.RoleAdmin, role)

	role, ok = sessiongate.ParseRole("standard")
	assert.True(t, ok)
	assert.Equal(t, sessiongate.RoleStandard, role)

	_, ok = sessiongate.ParseRole("superuser")
	assert.False(t, ok)

	_, ok = sessiongate.ParseRole("")
	assert.False(t, ok)
}

func TestAccountIsAdmin(t *testing.T) {
	var nilAccount *sessiongate.Account
	assert.False(t, nilAccount.IsAdmin())
	assert.False(t, (&sessiongate.Account{Role: sessiongate.RoleStandard}).IsAdmin())
	assert.True(t, (&sessiongate.Account{Role: sessiongate.RoleAdmin}).IsAdmin())
}

func TestAccountFullName(t *testing.T) {
	var nilAccount *sessiongate.Account
	assert.Equal(t, "", nilAccount.FullName())

	account := &sessiongate.Account{FirstName: "Bob", LastName: "Builder"}
	assert.Equal(t, "Bob Builder", account.FullName())
}
