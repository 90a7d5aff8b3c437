package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/iplocator-bot/iplocator/geolib"
)

// DefaultIPAPIURLTemplate is a template of URL, {ip} is substituted with
// escaped IP address.
const DefaultIPAPIURLTemplate = "http://ip-api.com/json/{ip}"

type ipapiResponse struct {
	Status      string       `json:"status"`
	Message     string       `json:"message"`
	Query       *string      `json:"query"`
	City        *string      `json:"city"`
	RegionName  *string      `json:"regionName"`
	CountryCode *string      `json:"countryCode"`
	Lat         *json.Number `json:"lat"`
	Lon         *json.Number `json:"lon"`
	Org         *string      `json:"org"`
	Timezone    *string      `json:"timezone"`
}

type ipapiProvider struct {
	client      geolib.HTTPClient
	urlTemplate string
}

func (i ipapiProvider) Name() string {
	return NameIPAPI
}

func (i ipapiProvider) Lookup(ctx context.Context, ip string) (geolib.ProviderLookupResult, error) {
	result := geolib.ProviderLookupResult{}
	jsonResponse := ipapiResponse{}
	endpoint := strings.ReplaceAll(i.urlTemplate, "{ip}", url.PathEscape(ip))

	if err := getJSON(ctx, i.client, endpoint, &jsonResponse); err != nil {
		return result, err
	}

	if jsonResponse.Status != "success" {
		return result, fmt.Errorf("status=%q, message=%q: %w",
			jsonResponse.Status, jsonResponse.Message, geolib.ErrNoData)
	}

	result.IP = ip
	if jsonResponse.Query != nil {
		result.IP = *jsonResponse.Query
	}

	result.City = geolib.OrNotAvailable(jsonResponse.City)
	result.Region = geolib.OrNotAvailable(jsonResponse.RegionName)
	result.Country = geolib.OrNotAvailable(jsonResponse.CountryCode)
	result.Location = numberOrNotAvailable(jsonResponse.Lat) + "," + numberOrNotAvailable(jsonResponse.Lon)
	result.Org = geolib.OrNotAvailable(jsonResponse.Org)
	result.Timezone = geolib.OrNotAvailable(jsonResponse.Timezone)

	return result, nil
}

func numberOrNotAvailable(value *json.Number) string {
	if value == nil {
		return geolib.NotAvailable
	}

	return value.String()
}

// NewIPAPI creates a fallback provider. Supported parameters:
//
//	url_template  overrides DefaultIPAPIURLTemplate
func NewIPAPI(client geolib.HTTPClient, parameters map[string]string) geolib.Provider {
	urlTemplate := parameters["url_template"]
	if urlTemplate == "" {
		urlTemplate = DefaultIPAPIURLTemplate
	}

	return ipapiProvider{
		client:      client,
		urlTemplate: urlTemplate,
	}
}
