package model

import "time"

// User is a registered citizen, keyed by email.
type User struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// UserContribution tracks how many reports a citizen has filed. Counts only
// ever increase; the tracker owns this record exclusively.
type UserContribution struct {
	Email       string    `json:"email"`
	ReportCount int       `json:"report_count"`
	ReportIDs   []string  `json:"report_ids"`
	LastUpdated time.Time `json:"last_updated"`
}
