package providers

import (
	"context"
	"fmt"
	"net/url"

	"github.com/iplocator-bot/iplocator/geolib"
)

// DefaultRyzumiBaseURL is a prefix; escaped IP address is appended to it.
const DefaultRyzumiBaseURL = "https://api.ryzumi.vip/api/tool/iplocation?ip="

type ryzumiResponse struct {
	IPInfo *struct {
		IP       *string `json:"ip"`
		City     *string `json:"city"`
		Region   *string `json:"region"`
		Country  *string `json:"country"`
		Loc      *string `json:"loc"`
		Org      *string `json:"org"`
		Timezone *string `json:"timezone"`
	} `json:"ipInfo"`
}

type ryzumiProvider struct {
	client  geolib.HTTPClient
	baseURL string
}

func (r ryzumiProvider) Name() string {
	return NameRyzumi
}

func (r ryzumiProvider) Lookup(ctx context.Context, ip string) (geolib.ProviderLookupResult, error) {
	result := geolib.ProviderLookupResult{}
	jsonResponse := ryzumiResponse{}

	if err := getJSON(ctx, r.client, r.baseURL+url.QueryEscape(ip), &jsonResponse); err != nil {
		return result, err
	}

	info := jsonResponse.IPInfo
	if info == nil {
		return result, fmt.Errorf("ipInfo is absent: %w", geolib.ErrNoData)
	}

	result.IP = ip
	if info.IP != nil {
		result.IP = *info.IP
	}

	result.City = geolib.OrNotAvailable(info.City)
	result.Region = geolib.OrNotAvailable(info.Region)
	result.Country = geolib.OrNotAvailable(info.Country)
	result.Location = geolib.OrNotAvailable(info.Loc)
	result.Org = geolib.OrNotAvailable(info.Org)
	result.Timezone = geolib.OrNotAvailable(info.Timezone)

	return result, nil
}

// NewRyzumi creates a primary provider. Supported parameters:
//
//	base_url  overrides DefaultRyzumiBaseURL
func NewRyzumi(client geolib.HTTPClient, parameters map[string]string) geolib.Provider {
	baseURL := parameters["base_url"]
	if baseURL == "" {
		baseURL = DefaultRyzumiBaseURL
	}

	return ryzumiProvider{
		client:  client,
		baseURL: baseURL,
	}
}
