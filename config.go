package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/hjson/hjson-go/v4"
	"github.com/iplocator-bot/iplocator/bot"
	"github.com/iplocator-bot/iplocator/geolib"
	"github.com/iplocator-bot/iplocator/providers"
	"github.com/qri-io/jsonschema"
	"github.com/spf13/afero"
)

const (
	DefaultListen          = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
)

const configProviderJSONSchema = `{
    "type": "object",
    "required": ["name"],
    "additionalProperties": false,
    "properties": {
        "name": {"type": "string", "minLength": 1},
        "http_timeout": {"type": "string"},
        "specific_parameters": {
            "type": "object",
            "additionalProperties": {"type": "string"}
        }
    }
}`

var configJSONSchema = func() *jsonschema.Schema {
	data := fmt.Sprintf(`{
        "type": "object",
        "additionalProperties": false,
        "properties": {
            "listen": {"type": "string", "minLength": 1},
            "worker_pool_size": {"type": "integer", "minimum": 0},
            "speed_probe_ip": {"type": "string"},
            "bulk": {
                "type": "object",
                "additionalProperties": false,
                "properties": {
                    "max_addresses": {"type": "integer", "minimum": 0},
                    "pacing": {"type": "string"}
                }
            },
            "telegram": {
                "type": "object",
                "additionalProperties": false,
                "properties": {
                    "http_timeout": {"type": "string"},
                    "rate_limit_interval": {"type": "string"},
                    "rate_limit_burst": {"type": "integer", "minimum": 0},
                    "circuit_breaker_open_threshold": {"type": "integer", "minimum": 0},
                    "circuit_breaker_cooldown": {"type": "string"},
                    "circuit_breaker_failures_window": {"type": "string"}
                }
            },
            "public_ip": %[1]s,
            "providers": {
                "type": "array",
                "minItems": 1,
                "items": %[1]s
            }
        }
    }`, configProviderJSONSchema)

	rv := &jsonschema.Schema{}
	if err := json.Unmarshal([]byte(data), rv); err != nil {
		panic(err)
	}

	return rv
}()

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(b []byte) error {
	var v interface{}

	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("cannot unmarshal duration: %w", err)
	}

	vv, ok := v.(string)
	if !ok {
		return fmt.Errorf("incorrect duration: %v", v)
	}

	dur, err := time.ParseDuration(vv)
	if err != nil {
		return fmt.Errorf("cannot parse duration: %w", err)
	}

	d.Duration = dur

	return nil
}

type config struct {
	Listen         string           `json:"listen"`
	WorkerPoolSize uint             `json:"worker_pool_size"`
	SpeedProbeIP   string           `json:"speed_probe_ip"`
	Bulk           configBulk       `json:"bulk"`
	Telegram       configTelegram   `json:"telegram"`
	PublicIP       configProvider   `json:"public_ip"`
	Providers      []configProvider `json:"providers"`
}

func (c config) GetListen() string {
	if c.Listen != "" {
		return c.Listen
	}

	return DefaultListen
}

func (c config) GetWorkerPoolSize() int {
	if c.WorkerPoolSize == 0 {
		return bot.DefaultWorkerPoolSize
	}

	return int(c.WorkerPoolSize)
}

func (c config) GetSpeedProbeIP() string {
	if c.SpeedProbeIP != "" {
		return c.SpeedProbeIP
	}

	return bot.DefaultSpeedProbeIP
}

func (c config) GetPublicIP() configProvider {
	if c.PublicIP.Name == "" {
		c.PublicIP.Name = providers.NameIPify
	}

	return c.PublicIP
}

func (c config) GetProviders() []configProvider {
	if len(c.Providers) == 0 {
		return []configProvider{
			{Name: providers.NameRyzumi},
			{Name: providers.NameIPAPI},
		}
	}

	return c.Providers
}

type configBulk struct {
	MaxAddresses uint     `json:"max_addresses"`
	Pacing       duration `json:"pacing"`
}

func (c configBulk) GetMaxAddresses() int {
	if c.MaxAddresses == 0 {
		return bot.DefaultBulkMaxAddresses
	}

	return int(c.MaxAddresses)
}

func (c configBulk) GetPacing() time.Duration {
	if c.Pacing.Duration == 0 {
		return bot.DefaultBulkPacing
	}

	return c.Pacing.Duration
}

type configTelegram struct {
	HTTPTimeout                  duration `json:"http_timeout"`
	RateLimitInterval            duration `json:"rate_limit_interval"`
	RateLimitBurst               uint     `json:"rate_limit_burst"`
	CircuitBreakerOpenThreshold  uint32   `json:"circuit_breaker_open_threshold"`
	CircuitBreakerCooldown       duration `json:"circuit_breaker_cooldown"`
	CircuitBreakerFailuresWindow duration `json:"circuit_breaker_failures_window"`
}

// GetClientOpts returns options where unset values are zero: client
// constructor knows the defaults.
func (c configTelegram) GetClientOpts() bot.TelegramClientOpts {
	return bot.TelegramClientOpts{
		Timeout:                 c.HTTPTimeout.Duration,
		RateLimitInterval:       c.RateLimitInterval.Duration,
		RateLimitBurst:          int(c.RateLimitBurst),
		CircuitBreakerThreshold: c.CircuitBreakerOpenThreshold,
		CircuitBreakerCooldown:  c.CircuitBreakerCooldown.Duration,
		CircuitBreakerWindow:    c.CircuitBreakerFailuresWindow.Duration,
	}
}

type configProvider struct {
	Name               string            `json:"name"`
	HTTPTimeout        duration          `json:"http_timeout"`
	SpecificParameters map[string]string `json:"specific_parameters"`
}

func (c configProvider) GetName() string {
	return c.Name
}

func (c configProvider) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeout.Duration == 0 {
		return geolib.DefaultHTTPTimeout
	}

	return c.HTTPTimeout.Duration
}

func (c configProvider) GetSpecificParameters() map[string]string {
	if c.SpecificParameters == nil {
		return map[string]string{}
	}

	return c.SpecificParameters
}

// parseConfig reads hjson config from filesystem. Empty path means
// that defaults are used.
func parseConfig(ctx context.Context, fs afero.Fs, path string) (*config, error) {
	conf := config{}

	if path != "" {
		content, err := afero.ReadFile(fs, path)
		if err != nil {
			return nil, fmt.Errorf("cannot read file: %w", err)
		}

		if err := decodeConfig(ctx, content, &conf); err != nil {
			return nil, err
		}
	}

	if _, _, err := net.SplitHostPort(conf.GetListen()); err != nil {
		return nil, fmt.Errorf("incorrect host:port for listen: %w", err)
	}

	seenProviderNames := map[string]struct{}{}

	for _, v := range conf.GetProviders() {
		if _, ok := seenProviderNames[v.GetName()]; ok {
			return nil, fmt.Errorf("name %s is duplicated", v.GetName())
		}

		seenProviderNames[v.GetName()] = struct{}{}
	}

	return &conf, nil
}

func decodeConfig(ctx context.Context, content []byte, conf *config) error {
	rawMap := map[string]interface{}{}

	if err := hjson.Unmarshal(content, &rawMap); err != nil {
		return fmt.Errorf("cannot parse hjson: %w", err)
	}

	rawBytes, err := json.Marshal(rawMap)
	if err != nil {
		return fmt.Errorf("cannot convert config to json: %w", err)
	}

	errs, err := configJSONSchema.ValidateBytes(ctx, rawBytes)
	if err != nil {
		return fmt.Errorf("cannot validate config: %w", err)
	}

	if len(errs) > 0 {
		messages := make([]string, len(errs))
		for i, v := range errs {
			messages[i] = v.Error()
		}

		return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
	}

	if err := json.Unmarshal(rawBytes, conf); err != nil {
		return fmt.Errorf("cannot decode config: %w", err)
	}

	return nil
}
