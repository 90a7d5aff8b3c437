package geolib

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	// ErrNoData has to be returned by providers if they have responded
	// but without any usable geolocation data.
	ErrNoData = errors.New("provider has no data for this address")

	// ErrBadStatus is returned by HTTPClient if upstream has responded
	// with 5xx status code.
	ErrBadStatus = errors.New("upstream has responded with bad status")

	ErrNoProviders = errors.New("no providers are given")
)

// IsNoData checks if error means 'provider is fine but has nothing to
// say'. Resolver goes to the next provider in that case.
func IsNoData(err error) bool {
	return errors.Is(err, ErrNoData) || errors.Is(err, ErrBadStatus)
}

type jsonHTTPError struct {
	Error struct {
		Message string `json:"message"`
		Context string `json:"context"`
	} `json:"error"`
}

type httpError struct {
	message    string
	err        error
	statusCode int
}

func (h *httpError) Message() string {
	if h == nil {
		return ""
	}

	return h.message
}

func (h *httpError) Err() string {
	if err := errors.Unwrap(h); err != nil {
		return err.Error()
	}

	return ""
}

func (h *httpError) StatusCode() int {
	if h != nil && h.statusCode != 0 {
		return h.statusCode
	}

	return http.StatusInternalServerError
}

func (h *httpError) Unwrap() error {
	if h == nil {
		return nil
	}

	return h.err
}

func (h *httpError) Error() string {
	switch {
	case h == nil:
		return ""
	case h.err != nil && h.message != "":
		return h.message + ": " + h.err.Error()
	case h.err != nil:
		return h.err.Error()
	}

	return h.message
}

func (h *httpError) MarshalJSON() ([]byte, error) {
	if h == nil {
		return []byte("null"), nil
	}

	value := jsonHTTPError{}
	value.Error.Message = h.Message()
	value.Error.Context = h.Err()

	return json.Marshal(&value)
}
