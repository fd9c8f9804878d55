package users

import "time"

type Role string

const (
	RoleAdmin           Role = "admin"
	RoleCashier         Role = "cashier"
	RoleManager         Role = "manager"
	RoleRetailClient    Role = "retail_client"
	RoleWholesaleClient Role = "wholesale_client"
)

type User struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Role          Role      `json:"role"`
	Phone         *string   `json:"phone,omitempty"`
	Address       *string   `json:"address,omitempty"`
	CreditAllowed bool      `json:"credit_allowed"`
	CreatedAt     time.Time `json:"created_at"`
}

// RequiresDueDate reports whether orders from this client defer payment and
// therefore must carry a payment due date.
func (u User) RequiresDueDate() bool {
	return u.Role == RoleWholesaleClient && u.CreditAllowed
}
