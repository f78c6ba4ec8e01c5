package employees

import "time"

// Employee is a depot staff member. PersonnelNumber is the unique badge
// number; AccountID links the employee to a login account when one exists.
type Employee struct {
	ID              int64     `json:"id"`
	PersonnelNumber string    `json:"personnel_number"`
	FullName        string    `json:"full_name"`
	PositionID      int64     `json:"position_id"`
	HireDate        time.Time `json:"hire_date"`
	Phone           string    `json:"phone,omitempty"`
	AccountID       *int64    `json:"account_id,omitempty"`

	PositionName string `json:"position_name,omitempty"`
}
