package domain

import "time"

// User is the identity record created at signup. It is never updated.
// PasswordHash and SSNHash are excluded from every JSON rendering.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	DateOfBirth  time.Time `json:"date_of_birth"`
	SSNHash      string    `json:"-"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	Zip          string    `json:"zip"`
	CreatedAt    time.Time `json:"created_at"`
}

// Stripped returns a copy of u without credential material.
func (u *User) Stripped() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = ""
	clone.SSNHash = ""
	return &clone
}
