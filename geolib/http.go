package geolib

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type httpHandler struct {
	resolver *Resolver
}

func (h httpHandler) handleGetSelf(w http.ResponseWriter, req *http.Request) {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}

	if net.ParseIP(host) == nil {
		h.sendError(w, nil, "Address was detected incorrectly", http.StatusBadRequest)

		return
	}

	h.resolve(w, req, host)
}

func (h httpHandler) handleGetIP(w http.ResponseWriter, req *http.Request) {
	h.resolve(w, req, chi.URLParam(req, "ip"))
}

func (h httpHandler) resolve(w http.ResponseWriter, req *http.Request, ip string) {
	resolved := h.resolver.Resolve(req.Context(), ip)

	if !resolved.Success {
		h.sendError(w, nil, resolved.Error, http.StatusBadGateway)

		return
	}

	response := struct {
		Result LookupResult `json:"result"`
	}{
		Result: resolved,
	}

	h.encodeJSON(w, response)
}

func (h httpHandler) handleGetStats(w http.ResponseWriter, _ *http.Request) {
	response := struct {
		Results []*UsageStats `json:"results"`
	}{
		Results: h.resolver.UsageStats(),
	}

	h.encodeJSON(w, response)
}

func (h httpHandler) encodeJSON(w http.ResponseWriter, data interface{}) {
	encoder := json.NewEncoder(w)

	w.Header().Set("Content-Type", "application/json")
	encoder.SetEscapeHTML(false)
	encoder.Encode(data) // nolint: errcheck
}

func (h httpHandler) sendError(w http.ResponseWriter, err error, message string, statusCode int) {
	e := &httpError{
		message:    message,
		statusCode: statusCode,
		err:        err,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode())
	json.NewEncoder(w).Encode(e) // nolint: errcheck
}

// NewHTTPHandler returns a JSON API on top of Resolver:
//
//	GET /lookup       geolocates a caller
//	GET /lookup/{ip}  geolocates given address
//	GET /stats        usage statistics of providers
func NewHTTPHandler(resolver *Resolver) http.Handler {
	handler := httpHandler{
		resolver: resolver,
	}
	router := chi.NewRouter()

	router.Get("/lookup", handler.handleGetSelf)
	router.Get("/lookup/{ip}", handler.handleGetIP)
	router.Get("/stats", handler.handleGetStats)

	return router
}
