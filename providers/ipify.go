package providers

import (
	"context"
	"fmt"
	"net"

	"github.com/iplocator-bot/iplocator/geolib"
)

const DefaultIPifyURL = "https://api.ipify.org?format=json"

type ipifyResponse struct {
	IP string `json:"ip"`
}

// IPify detects a public IP address of this host.
type IPify struct {
	client geolib.HTTPClient
	url    string
}

func (i IPify) Name() string {
	return NameIPify
}

// PublicIP returns an address as it is seen from the internet.
func (i IPify) PublicIP(ctx context.Context) (string, error) {
	jsonResponse := ipifyResponse{}

	if err := getJSON(ctx, i.client, i.url, &jsonResponse); err != nil {
		return "", err
	}

	if net.ParseIP(jsonResponse.IP) == nil {
		return "", fmt.Errorf("incorrect address %q: %w", jsonResponse.IP, ErrNoAddress)
	}

	return jsonResponse.IP, nil
}

// NewIPify creates a public IP detector. Supported parameters:
//
//	url  overrides DefaultIPifyURL
func NewIPify(client geolib.HTTPClient, parameters map[string]string) IPify {
	endpoint := parameters["url"]
	if endpoint == "" {
		endpoint = DefaultIPifyURL
	}

	return IPify{
		client: client,
		url:    endpoint,
	}
}
