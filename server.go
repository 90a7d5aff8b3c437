package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iplocator-bot/iplocator/bot"
	"github.com/iplocator-bot/iplocator/geolib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

const indexMessage = "Ryzumi IP Bot is running!"

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(indexMessage)) // nolint: errcheck
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	response := struct {
		Status string `json:"status"`
		Time   string `json:"time"`
	}{
		Status: "ok",
		Time:   time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&response) // nolint: errcheck
}

func makeHTTPHandler(resolver *geolib.Resolver,
	webhook http.Handler,
	gatherer prometheus.Gatherer,
	logger zerolog.Logger) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RealIP)
	router.Use(hlog.NewHandler(logger))
	router.Use(hlog.RequestIDHandler("request_id", "X-Request-Id"))
	router.Use(hlog.AccessHandler(func(req *http.Request, status, size int, elapsed time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Stringer("url", req.URL).
			Int("status", status).
			Int("size", size).
			Dur("elapsed", elapsed).
			Msg("")
	}))
	router.Use(middleware.Recoverer)

	router.Get("/", handleIndex)
	router.Get("/health", handleHealth)
	router.Method(http.MethodPost, bot.WebhookPath, webhook)
	router.Mount("/api", geolib.NewHTTPHandler(resolver))
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return router
}
