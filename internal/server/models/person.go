// Package models defines server-side data models persisted in the database.
package models

import "time"

type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnknown:
		return true
	}
	return false
}

// Address is the optional postal address of a person. Every field may be nil.
type Address struct {
	Line1      *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

// Empty reports whether no address field is set.
func (a *Address) Empty() bool {
	return a == nil || (a.Line1 == nil && a.City == nil && a.State == nil && a.PostalCode == nil && a.Country == nil)
}

// Person is a registered account. Email is stored lowercased and is unique.
type Person struct {
	ID           string
	FullName     string
	DateOfBirth  *time.Time
	Gender       Gender
	PhoneNumber  *string
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Address *Address
}
