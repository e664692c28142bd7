package models

// Participant is a pre-registered attendee from the roster source.
// Name is the lookup key; it is not guaranteed unique and the first
// match wins.
type Participant struct {
	Name           string `json:"name" db:"name"`
	Email          string `json:"email" db:"email"`
	Category       string `json:"category" db:"category"`
	VerificationID string `json:"verification_id" db:"verification_id"`
}

// WalkInType labels attendees who check in without a roster entry.
const WalkInType = "Walk-in"
