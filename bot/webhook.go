package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	// WebhookPath is a path where Telegram sends updates to.
	WebhookPath = "/webhook"

	// MaxUpdateSize limits a body of webhook request.
	MaxUpdateSize = 1 << 20
)

type webhookHandler struct {
	dispatcher UpdateDispatcher
	logger     zerolog.Logger
}

func (h webhookHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		http.Error(w, "Bad Request", http.StatusBadRequest)

		return
	}

	update := tgbotapi.Update{}
	body := http.MaxBytesReader(w, req.Body, MaxUpdateSize)

	defer body.Close()

	if err := json.NewDecoder(body).Decode(&update); err != nil {
		h.logger.Warn().Err(err).Msg("Cannot parse an update")

		tooLarge := &http.MaxBytesError{}
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
		} else {
			http.Error(w, "Bad Request", http.StatusBadRequest)
		}

		return
	}

	if err := h.dispatcher.Dispatch(update); err != nil {
		h.logger.Error().Err(err).Int("update_id", update.UpdateID).Msg("Cannot dispatch an update")
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)

		return
	}

	w.WriteHeader(http.StatusOK)
}

// NewWebhookHandler accepts JSON updates from Telegram and passes them
// to dispatcher.
func NewWebhookHandler(dispatcher UpdateDispatcher, logger zerolog.Logger) http.Handler {
	return webhookHandler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// WebhookURL builds an URL of webhook from a public address of the
// service. Address without scheme is treated as https one.
func WebhookURL(publicURL string) (string, error) {
	publicURL = strings.TrimSpace(publicURL)
	if !strings.Contains(publicURL, "://") {
		publicURL = "https://" + publicURL
	}

	parsed, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("incorrect public url: %w", err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("public url %s has no host", publicURL)
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/") + WebhookPath

	return parsed.String(), nil
}

// SetupWebhook drops current webhook and registers a new one. Telegram
// is not happy if we change webhook too fast so there is a pause
// between these calls.
func SetupWebhook(api API, publicURL string, pause time.Duration) (string, error) {
	link, err := WebhookURL(publicURL)
	if err != nil {
		return "", err
	}

	config, err := tgbotapi.NewWebhook(link)
	if err != nil {
		return "", fmt.Errorf("cannot build webhook config: %w", err)
	}

	if _, err := api.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		return "", fmt.Errorf("cannot remove webhook: %w", err)
	}

	time.Sleep(pause)

	if _, err := api.Request(config); err != nil {
		return "", fmt.Errorf("cannot set webhook: %w", err)
	}

	return link, nil
}
