package geolib

import (
	"context"
	"net/http"
)

// Provider is a single geolocation strategy.
//
// Lookup has to return ErrNoData (wrapped is fine) if provider has
// responded but has no usable data. Any other error is treated as a
// fault.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, ip string) (ProviderLookupResult, error)
}

// HTTPClient is an interface for http.Client-like entities. It is
// satisfied by *http.Client and by clients created with NewHTTPClient.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

type Logger interface {
	LookupMiss(ip, name string, err error)
	LookupError(ip, name string, err error)
}
