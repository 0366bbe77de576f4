package domain

import "time"

// Organization is the tenant boundary; every user and workflow belongs to one.
type Organization struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
