package geolib

import "strings"

const (
	// NotAvailable is a placeholder for the fields which provider has
	// not returned.
	NotAvailable = "N/A"

	// LookupFailed is an error message of the result when nobody was
	// able to geolocate an address.
	LookupFailed = "Lookup failed"
)

// LookupResult is a normalized outcome of a single Resolve call.
type LookupResult struct {
	Success  bool   `json:"success"`
	IP       string `json:"ip"`
	City     string `json:"city,omitempty"`
	Region   string `json:"region,omitempty"`
	Country  string `json:"country,omitempty"`
	Location string `json:"location,omitempty"`
	Org      string `json:"org,omitempty"`
	Timezone string `json:"timezone,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Coordinates splits location into latitude and longitude. ok is false
// if location is unknown.
func (l LookupResult) Coordinates() (lat, lon string, ok bool) {
	if l.Location == NotAvailable {
		return "", "", false
	}

	chunks := strings.SplitN(l.Location, ",", 2)
	if len(chunks) != 2 || chunks[0] == NotAvailable || chunks[1] == NotAvailable {
		return "", "", false
	}

	return chunks[0], chunks[1], true
}

// CountryName returns a common name of the country if country field
// is a known ISO3166 code. Otherwise it is empty.
func (l LookupResult) CountryName() string {
	return CountryCommonName(l.Country)
}

// ProviderLookupResult is what provider returns on success. Providers
// are responsible to fill absent fields with NotAvailable.
type ProviderLookupResult struct {
	IP       string
	City     string
	Region   string
	Country  string
	Location string
	Org      string
	Timezone string
}

func (p ProviderLookupResult) toLookupResult() LookupResult {
	return LookupResult{
		Success:  true,
		IP:       p.IP,
		City:     p.City,
		Region:   p.Region,
		Country:  p.Country,
		Location: p.Location,
		Org:      p.Org,
		Timezone: p.Timezone,
	}
}

// OrNotAvailable dereferences a value decoded from JSON. Absent keys
// become NotAvailable.
func OrNotAvailable(value *string) string {
	if value == nil {
		return NotAvailable
	}

	return *value
}
