package model

import "time"

// Meeting status values. A request starts pending, becomes scheduled once
// an admin assigns a slot, and completed after it has taken place.
const (
	StatusPending   = "pending"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
)

// ValidStatus reports whether s is one of the three meeting states.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusScheduled || s == StatusCompleted
}

type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type Meeting struct {
	ID                string
	Name              string
	Organization      string
	Reason            string
	Email             string
	Phone             string
	PreferredDatetime *time.Time
	AssignedDatetime  *time.Time
	Status            string
	Comment           string
	Signature         string
	CreatedAt         time.Time
}
