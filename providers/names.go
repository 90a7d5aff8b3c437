package providers

const (
	// Identifier for api.ryzumi.vip. This is a primary provider.
	NameRyzumi = "ryzumi"

	// Identifier for ip-api.com. This is a fallback provider.
	NameIPAPI = "ipapi"

	// Identifier for api.ipify.org. It is not a geolocation provider,
	// it detects public IP address of the host.
	NameIPify = "ipify"
)
