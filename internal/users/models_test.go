package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiresDueDate(t *testing.T) {
	assert.True(t, User{Role: RoleWholesaleClient, CreditAllowed: true}.RequiresDueDate())
	assert.False(t, User{Role: RoleWholesaleClient, CreditAllowed: false}.RequiresDueDate())
	assert.False(t, User{Role: RoleRetailClient, CreditAllowed: true}.RequiresDueDate())
	assert.False(t, User{Role: RoleCashier}.RequiresDueDate())
}
