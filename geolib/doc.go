// Package geolib contains the geolocation core of iplocator.
//
// The main entity is Resolver. It has an ordered list of providers
// (strategies) and asks them one by one until somebody returns usable
// geolocation data for the given IP address. A provider can either
// answer, say that it has nothing to answer (ErrNoData and friends) or
// fail. Failure stops the chain: there is no point to hammer the next
// provider if network is broken or response is garbage.
//
// Resolver never returns an error. All outcomes are converted into
// LookupResult which is ready to be rendered for a human.
//
// Resolver keeps no state which affects results: the same address
// gives the same answer as long as providers give the same answers.
//
// This package also provides an HTTPClient for providers (user agent,
// bounded wait, 5xx as ErrBadStatus), usage statistics, prometheus
// metrics and a small JSON HTTP API.
package geolib
