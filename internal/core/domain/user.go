package domain

import (
	"strings"
	"time"

	"teen-wallet-service/pkg/apperror"
)

// User is the wallet owner. The wallet core consumes only its identity
// and an age-at-reference-date derivation; profile and credential fields
// belong to the auth/user surface.
type User struct {
	id           UserID
	firstName    string
	lastName     string
	birthDate    time.Time
	email        string
	passwordHash string
}

// NewUserParams holds validated-on-construction user attributes.
type NewUserParams struct {
	ID           UserID
	FirstName    string
	LastName     string
	BirthDate    time.Time
	Email        string
	PasswordHash string
}

// NewUser constructs a User, validating names, birth date and email.
func NewUser(p NewUserParams) (*User, error) {
	if strings.TrimSpace(p.FirstName) == "" {
		return nil, apperror.Validation("first name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		return nil, apperror.Validation("last name is required")
	}
	if p.BirthDate.IsZero() || p.BirthDate.After(time.Now()) {
		return nil, apperror.Validation("birth date must be a valid past date")
	}
	if !strings.Contains(p.Email, "@") {
		return nil, apperror.Validation("invalid email")
	}
	if p.PasswordHash == "" {
		return nil, apperror.Validation("password hash is required")
	}

	return &User{
		id:           p.ID,
		firstName:    p.FirstName,
		lastName:     p.LastName,
		birthDate:    p.BirthDate,
		email:        p.Email,
		passwordHash: p.PasswordHash,
	}, nil
}

func (u *User) ID() UserID           { return u.id }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) BirthDate() time.Time { return u.birthDate }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }

// Age returns the calendar age at the given reference date.
func (u *User) Age(ref time.Time) int {
	age := ref.Year() - u.birthDate.Year()
	if ref.Month() < u.birthDate.Month() ||
		(ref.Month() == u.birthDate.Month() && ref.Day() < u.birthDate.Day()) {
		age--
	}
	return age
}

// IsTeen reports whether the user is between 13 and 17 at the reference date.
func (u *User) IsTeen(ref time.Time) bool {
	age := u.Age(ref)
	return age >= 13 && age < 18
}
