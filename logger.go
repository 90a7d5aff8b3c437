package main

import (
	"io"

	"github.com/iplocator-bot/iplocator/geolib"
	"github.com/rs/zerolog"
)

type logger struct {
	lookupLog zerolog.Logger
}

func (l *logger) LookupMiss(ip, name string, err error) {
	l.lookupLog.Debug().Str("provider", name).Str("ip", ip).Err(err).Msg("Provider has no data")
}

func (l *logger) LookupError(ip, name string, err error) {
	l.lookupLog.Error().Str("provider", name).Str("ip", ip).Err(err).Msg("")
}

func newRootLogger(out io.Writer, debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func newLookupLogger(root zerolog.Logger) geolib.Logger {
	return &logger{
		lookupLog: root.With().Str("event_name", "lookup").Logger(),
	}
}

func newBotLogger(root zerolog.Logger) zerolog.Logger {
	return root.With().Str("event_name", "bot").Logger()
}

func newHTTPLogger(root zerolog.Logger) zerolog.Logger {
	return root.With().Str("event_name", "http").Logger()
}
