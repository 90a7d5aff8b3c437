package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/iplocator-bot/iplocator/bot"
	"github.com/iplocator-bot/iplocator/geolib"
	"github.com/iplocator-bot/iplocator/providers"
)

func makeRootContext() (context.Context, context.CancelFunc) {
	rootCtx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)

	go func() {
		for range sigChan {
			cancel()
		}
	}()

	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	return rootCtx, cancel
}

func makeProviders(conf *config) ([]geolib.Provider, error) {
	rv := make([]geolib.Provider, 0, len(conf.GetProviders()))

	for _, v := range conf.GetProviders() {
		httpClient := makeNewHTTPClient(v)

		switch v.GetName() {
		case providers.NameRyzumi:
			rv = append(rv, providers.NewRyzumi(httpClient, v.GetSpecificParameters()))
		case providers.NameIPAPI:
			rv = append(rv, providers.NewIPAPI(httpClient, v.GetSpecificParameters()))
		default:
			return nil, fmt.Errorf("unsupported provider name: %s", v.GetName())
		}
	}

	return rv, nil
}

func makePublicIPDetector(conf *config) (providers.IPify, error) {
	v := conf.GetPublicIP()

	if v.GetName() != providers.NameIPify {
		return providers.IPify{}, fmt.Errorf("unsupported public ip provider name: %s", v.GetName())
	}

	return providers.NewIPify(makeNewHTTPClient(v), v.GetSpecificParameters()), nil
}

func makeNewHTTPClient(conf configProvider) geolib.HTTPClient {
	httpClient := &http.Client{
		Timeout: conf.GetHTTPTimeout(),
	}

	return geolib.NewHTTPClient(httpClient, "iplocator/"+version)
}

func makeTelegramClient(conf configTelegram) tgbotapi.HTTPClient {
	return bot.NewTelegramClient(&http.Client{}, "iplocator/"+version, conf.GetClientOpts())
}
