package domain

import (
	"strings"
	"time"
)

// Address is a Mexican street address.
type Address struct {
	Street     string
	ExtNumber  string
	IntNumber  string
	Colonia    string
	PostalCode string
	City       string
	State      string

	// References are delivery hints such as "green gate, next to the pharmacy".
	References string
}

// IsZero reports whether no address field is set.
func (a Address) IsZero() bool {
	return a == Address{}
}

// Line formats the address on a single line.
func (a Address) Line() string {
	var parts []string
	street := strings.TrimSpace(strings.Join([]string{a.Street, a.ExtNumber}, " "))
	if a.IntNumber != "" {
		street += " int. " + a.IntNumber
	}
	for _, p := range []string{street, a.Colonia, a.PostalCode, a.City, a.State} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Client is a pet owner registered with a tenant.
type Client struct {
	ID        string
	TenantID  string
	FirstName string
	LastName  string
	Email     string

	// Phone is stored as ten digits without separators.
	Phone string

	Address   Address
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName returns the client's first and last name.
func (c *Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Species classifies a pet.
type Species string

// Known species.
const (
	SpeciesDog     Species = "dog"
	SpeciesCat     Species = "cat"
	SpeciesBird    Species = "bird"
	SpeciesRabbit  Species = "rabbit"
	SpeciesReptile Species = "reptile"
	SpeciesOther   Species = "other"
)

// IsValid returns true if the species is recognised.
func (s Species) IsValid() bool {
	switch s {
	case SpeciesDog, SpeciesCat, SpeciesBird, SpeciesRabbit, SpeciesReptile, SpeciesOther:
		return true
	default:
		return false
	}
}

// Pet is an animal owned by a client.
type Pet struct {
	ID       string
	TenantID string
	ClientID string
	Name     string
	Species  Species
	Breed    string

	// Sex is "male", "female" or empty when unknown.
	Sex string

	BirthDate time.Time
	WeightKg  float64
	Neutered  bool
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AgeAt returns the pet's age in whole years at t, or -1 if the birth date is unknown.
func (p *Pet) AgeAt(t time.Time) int {
	if p.BirthDate.IsZero() {
		return -1
	}
	years := t.Year() - p.BirthDate.Year()
	if t.YearDay() < p.BirthDate.YearDay() {
		years--
	}
	return years
}
