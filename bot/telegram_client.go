package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

const (
	DefaultTelegramTimeout           = 10 * time.Second
	DefaultTelegramRateLimitInterval = 50 * time.Millisecond
	DefaultTelegramRateLimitBurst    = 20
	DefaultTelegramBreakerThreshold  = 5
	DefaultTelegramBreakerCooldown   = time.Minute
	DefaultTelegramBreakerWindow     = time.Minute
)

// TelegramClientOpts configures an HTTP client for Bot API. Zero values
// mean defaults.
type TelegramClientOpts struct {
	// Timeout bounds both waiting for a rate limiter and the request
	// itself, including reading of the response body.
	Timeout time.Duration

	RateLimitInterval time.Duration
	RateLimitBurst    int

	// CircuitBreakerThreshold is a number of failures (transport errors
	// and 5xx responses) after which requests are rejected with
	// ErrCircuitBreakerOpened for CircuitBreakerCooldown.
	CircuitBreakerThreshold uint32
	CircuitBreakerCooldown  time.Duration

	// CircuitBreakerWindow is a period after which failures of the
	// closed circuit breaker are forgotten.
	CircuitBreakerWindow time.Duration
}

type telegramClient struct {
	client    *http.Client
	userAgent string
	timeout   time.Duration
	limiter   *rate.Limiter
	breaker   *circuitBreaker
}

type cancelOnClose struct {
	io.ReadCloser

	cancel context.CancelFunc
}

func (c cancelOnClose) Close() error {
	defer c.cancel()

	return c.ReadCloser.Close()
}

func (t *telegramClient) Do(req *http.Request) (*http.Response, error) {
	parent := req.Context()
	ctx, cancel := context.WithTimeout(parent, t.timeout)

	if err := t.limiter.Wait(ctx); err != nil {
		cancel()

		return nil, fmt.Errorf("cannot wait for a rate limiter: %w", err)
	}

	if err := t.breaker.acquire(); err != nil {
		cancel()

		return nil, err
	}

	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		// requests interrupted by the caller say nothing about Telegram
		t.breaker.done(true, parent.Err() == nil)
		cancel()

		return nil, err
	}

	t.breaker.done(resp.StatusCode >= http.StatusInternalServerError, true)

	resp.Body = cancelOnClose{
		ReadCloser: resp.Body,
		cancel:     cancel,
	}

	return resp, nil
}

// NewTelegramClient wraps a client for Bot API with a rate limiter and
// a circuit breaker. Responses are returned as is: Bot API describes
// its errors in JSON bodies.
func NewTelegramClient(client *http.Client, userAgent string, opts TelegramClientOpts) tgbotapi.HTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTelegramTimeout
	}

	if opts.RateLimitInterval <= 0 {
		opts.RateLimitInterval = DefaultTelegramRateLimitInterval
	}

	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = DefaultTelegramRateLimitBurst
	}

	if opts.CircuitBreakerThreshold == 0 {
		opts.CircuitBreakerThreshold = DefaultTelegramBreakerThreshold
	}

	if opts.CircuitBreakerCooldown <= 0 {
		opts.CircuitBreakerCooldown = DefaultTelegramBreakerCooldown
	}

	if opts.CircuitBreakerWindow <= 0 {
		opts.CircuitBreakerWindow = DefaultTelegramBreakerWindow
	}

	return &telegramClient{
		client:    client,
		userAgent: userAgent,
		timeout:   opts.Timeout,
		limiter:   rate.NewLimiter(rate.Every(opts.RateLimitInterval), opts.RateLimitBurst),
		breaker: newCircuitBreaker(opts.CircuitBreakerThreshold,
			opts.CircuitBreakerCooldown,
			opts.CircuitBreakerWindow),
	}
}
