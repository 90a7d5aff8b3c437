// Iplocator is a Telegram bot which tells where IP addresses are
// located.
//
// User sends an address (or uses /ip, /myip, /bulk commands) and bot
// replies with a city, region, country, ISP and timezone of this
// address. Data comes from public geolocation services.
//
// Tool itself is organized into 3 logical parts:
//
// Geolib
//
// geolib is a main package of the application which contains Resolver
// and main logic related to geolocation. Resolver has an ordered list
// of pluggable providers: if one has no data, next is asked. It also
// has its own JSON API and can act as http.Handler.
//
// Providers
//
// This package has implementations of providers: Ryzumi API is a
// primary one, ip-api.com is a fallback. ipify is used to detect a
// public address of the bot itself.
//
// Bot
//
// Telegram glue: commands, message formatting, inline keyboards and
// webhook handling.
//
// A main package wires all of them: it reads a config, registers a
// webhook and starts http server which accepts updates from Telegram.
package main
