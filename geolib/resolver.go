package geolib

import (
	"context"
	"fmt"
	"time"
)

// Resolver asks providers one by one in the given order. The first
// provider which returns data wins.
type Resolver struct {
	providers  []Provider
	usageStats []*UsageStats
	logger     Logger
	metrics    *Metrics
}

// Resolve geolocates given address. It never fails: errors are
// converted into LookupResult with Success set to false.
//
// If provider has nothing to say (see IsNoData), the next one is
// asked. Any other error stops the chain immediately and its text
// becomes an error of the result.
func (r *Resolver) Resolve(ctx context.Context, ip string) LookupResult {
	started := time.Now()
	rv := r.resolve(ctx, ip)

	r.metrics.observeResolve(rv, started)

	return rv
}

func (r *Resolver) resolve(ctx context.Context, ip string) LookupResult {
	for i, prov := range r.providers {
		res, err := prov.Lookup(ctx, ip)

		r.usageStats[i].Used(err)
		r.metrics.observeProvider(prov.Name(), err)

		switch {
		case err == nil:
			return res.toLookupResult()
		case IsNoData(err):
			r.logger.LookupMiss(ip, prov.Name(), err)
		default:
			r.logger.LookupError(ip, prov.Name(), err)

			return LookupResult{
				IP:    ip,
				Error: err.Error(),
			}
		}
	}

	return LookupResult{
		IP:    ip,
		Error: LookupFailed,
	}
}

// Providers returns names of providers in order of asking.
func (r *Resolver) Providers() []string {
	rv := make([]string, len(r.providers))

	for i, v := range r.providers {
		rv[i] = v.Name()
	}

	return rv
}

// UsageStats returns usage statistics of each provider.
func (r *Resolver) UsageStats() []*UsageStats {
	rv := make([]*UsageStats, len(r.usageStats))

	copy(rv, r.usageStats)

	return rv
}

// NewResolver creates a new resolver. Order of providers matters: this
// is an order of fallback. metrics can be nil.
func NewResolver(providers []Provider, logger Logger, metrics *Metrics) (*Resolver, error) {
	if len(providers) == 0 {
		return nil, ErrNoProviders
	}

	rv := &Resolver{
		providers:  make([]Provider, 0, len(providers)),
		usageStats: make([]*UsageStats, 0, len(providers)),
		logger:     logger,
		metrics:    metrics,
	}
	seenNames := map[string]bool{}

	for _, v := range providers {
		if seenNames[v.Name()] {
			return nil, fmt.Errorf("provider %s is duplicated", v.Name())
		}

		seenNames[v.Name()] = true
		rv.providers = append(rv.providers, v)
		rv.usageStats = append(rv.usageStats, &UsageStats{Name: v.Name()})
	}

	return rv, nil
}
