package accounts

import "time"

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createAccountRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

// AccountResponse is the JSON shape for account records. The password hash
// never leaves the service.
type AccountResponse struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Role               string     `json:"role"`
	IsActive           bool       `json:"is_active"`
	MustChangePassword bool       `json:"must_change_password"`
	CreatedAt          time.Time  `json:"created_at"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
}

func toResponse(a *Account) AccountResponse {
	return AccountResponse{
		ID:                 a.ID,
		Username:           a.Username,
		Role:               string(a.Role),
		IsActive:           a.IsActive,
		MustChangePassword: a.MustChangePassword,
		CreatedAt:          a.CreatedAt,
		LastLoginAt:        a.LastLoginAt,
	}
}
