package model

import "time"

// AdminUser represents a staff account allowed to manage orders.
type AdminUser struct {
	ID           int64
	Login        string
	PasswordHash string
	CreatedAt    time.Time
}
