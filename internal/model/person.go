package model

import "time"

// Person is referenced from content records by identifier (authors,
// composers). Referential integrity is owned by the store, not the gateway.
type Person struct {
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
}

func (p *Person) ApplyDefaults(now time.Time) {}
