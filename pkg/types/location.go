package types

import "strings"

// Location carries the free-text address fields used for shipping zone
// classification. Values come straight from user or company profile forms.
type Location struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// IsComplete reports whether every classification field is present.
func (l Location) IsComplete() bool {
	return strings.TrimSpace(l.City) != "" &&
		strings.TrimSpace(l.State) != "" &&
		strings.TrimSpace(l.Country) != ""
}

// BuyerLocation is the persisted profile location, including the zone derived
// at capture time.
type BuyerLocation struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
	Zone       string `json:"zone"`
}

// Location projects the classification fields.
func (b BuyerLocation) Location() Location {
	return Location{City: b.City, State: b.State, Country: b.Country}
}
