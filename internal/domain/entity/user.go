package entity

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// phonePattern accepts an optional leading '+' followed by 9 to 15 digits.
var phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)

// User is the core identity in the system. Drivers and customers are both
// represented as users distinguished by role.
type User struct {
	ID           uuid.UUID  // The unique identifier for the user.
	Phone        string     // The registration phone number; unique across users.
	PasswordHash string     // The bcrypt hash of the login password.
	Role         Role       // The role driving the access policy.
	Verified     bool       // Whether the phone number has been verified.
	DateOfBirth  *time.Time // Optional date of birth.
	ProfileImage string     // Optional profile image reference.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidPhone reports whether the given phone number matches the accepted pattern.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Contact is a phone number saved by a customer. At most one contact per
// customer is active at a time.
type Contact struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	Phone      string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
