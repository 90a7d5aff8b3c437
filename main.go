package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/iplocator-bot/iplocator/bot"
	"github.com/iplocator-bot/iplocator/geolib"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

const webhookSetupPause = time.Second

var version = "dev"

var (
	app = kingpin.New(
		"iplocator",
		"Telegram bot which tells where IP addresses are located")

	debug = app.Flag("debug", "Run in debug mode.").
		Short('d').
		Envar("IPLOCATOR_DEBUG").
		Bool()
	configPath = app.Flag("config", "Path to the hjson config.").
			Short('c').
			Envar("IPLOCATOR_CONFIG").
			String()
	token = app.Flag("token", "Telegram bot token.").
		Envar("BOT_TOKEN").
		Required().
		String()
	adminID = app.Flag("admin-id", "Telegram ID of the admin who is notified on start.").
		Envar("ADMIN_ID").
		Default("0").
		Int64()
	publicURL = app.Flag("public-url", "Public URL of the service. Webhook is set only if it is defined.").
			Envar("RAILWAY_STATIC_URL").
			String()
	port = app.Flag("port", "Port to listen to. Overrides listen address from the config.").
		Envar("PORT").
		String()
)

func main() {
	app.Version(version)
	kingpin.MustParse(app.Parse(os.Args[1:]))

	rootLogger := newRootLogger(os.Stderr, *debug)
	botLogger := newBotLogger(rootLogger)

	ctx, cancel := makeRootContext()
	defer cancel()

	conf, err := parseConfig(ctx, afero.NewOsFs(), *configPath)
	if err != nil {
		rootLogger.Fatal().Err(err).Msg("Cannot read config")
	}

	listen := conf.GetListen()
	if *port != "" {
		listen = net.JoinHostPort("", *port)
	}

	geoProviders, err := makeProviders(conf)
	if err != nil {
		rootLogger.Fatal().Err(err).Msg("Cannot initialize providers")
	}

	detector, err := makePublicIPDetector(conf)
	if err != nil {
		rootLogger.Fatal().Err(err).Msg("Cannot initialize public ip detector")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := geolib.NewMetrics(registry)
	if err != nil {
		rootLogger.Fatal().Err(err).Msg("Cannot initialize metrics")
	}

	resolver, err := geolib.NewResolver(geoProviders, newLookupLogger(rootLogger), metrics)
	if err != nil {
		rootLogger.Fatal().Err(err).Msg("Cannot create resolver")
	}

	api, err := tgbotapi.NewBotAPIWithClient(*token,
		tgbotapi.APIEndpoint,
		makeTelegramClient(conf.Telegram))
	if err != nil {
		rootLogger.Fatal().Err(err).Msg("Cannot connect to Telegram")
	}

	api.Debug = *debug

	tgBot := bot.New(bot.Opts{
		API:              api,
		Resolver:         resolver,
		Detector:         detector,
		Logger:           botLogger,
		BulkMaxAddresses: conf.Bulk.GetMaxAddresses(),
		BulkPacing:       conf.Bulk.GetPacing(),
		SpeedProbeIP:     conf.GetSpeedProbeIP(),
	})

	dispatcher, err := bot.NewDispatcher(ctx, tgBot, conf.GetWorkerPoolSize(), botLogger)
	if err != nil {
		rootLogger.Fatal().Err(err).Msg("Cannot create update dispatcher")
	}

	setupWebhook(api, botLogger)
	notifyAdmin(api, botLogger)

	srv := &http.Server{
		Addr: listen,
		Handler: makeHTTPHandler(resolver,
			bot.NewWebhookHandler(dispatcher, botLogger),
			registry,
			newHTTPLogger(rootLogger)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
		defer shutdownCancel()

		srv.Shutdown(shutdownCtx) // nolint: errcheck
	}()

	rootLogger.Info().
		Str("listen", listen).
		Str("bot", api.Self.UserName).
		Str("token", maskToken(*token)).
		Int64("admin_id", *adminID).
		Strs("providers", resolver.Providers()).
		Msg("Bot is starting")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		rootLogger.Fatal().Err(err).Msg("Server has stopped")
	}

	if err := dispatcher.Shutdown(DefaultShutdownTimeout); err != nil {
		rootLogger.Warn().Err(err).Msg("Some updates were not processed")
	}
}

func setupWebhook(api bot.API, logger zerolog.Logger) {
	if *publicURL == "" {
		logger.Warn().Msg("Public URL is not set, webhook is not registered")

		return
	}

	link, err := bot.SetupWebhook(api, *publicURL, webhookSetupPause)
	if err != nil {
		logger.Error().Err(err).Msg("Cannot set webhook")

		return
	}

	logger.Info().Str("url", link).Msg("Webhook is set")
}

func notifyAdmin(api bot.API, logger zerolog.Logger) {
	if *adminID == 0 {
		return
	}

	msg := tgbotapi.NewMessage(*adminID, "🚀 IP locator bot "+version+" has started")

	if _, err := api.Send(msg); err != nil {
		logger.Warn().Err(err).Int64("admin_id", *adminID).Msg("Cannot notify admin")
	}
}

func maskToken(value string) string {
	if len(value) <= 10 {
		return "***"
	}

	return value[:10] + "..."
}
