package providers

import "errors"

// ErrNoAddress is returned by public IP detector if service has
// responded without an address.
var ErrNoAddress = errors.New("service has not returned any address")
