package accounts

import (
	"time"

	"github.com/autopark-suite/autopark/internal/authz"
)

// Account represents a depot user identity.
type Account struct {
	ID                 int64
	Username           string
	PasswordHash       string
	Role               authz.Role
	IsActive           bool
	MustChangePassword bool
	CreatedAt          time.Time
	LastLoginAt        *time.Time
}

// Principal converts the account to the summary the authorization gate
// consumes.
func (a *Account) Principal() authz.Principal {
	return authz.Principal{
		ID:       a.ID,
		Username: a.Username,
		Role:     a.Role,
		Active:   a.IsActive,
	}
}
