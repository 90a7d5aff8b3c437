// Package bot is a Telegram front-end of iplocator.
//
// Bot receives updates (usually from webhook via Dispatcher), parses
// commands, validates addresses and renders lookup results into HTML
// messages. Geolocation itself is done by Resolver, bot only decides
// what to ask and how to show it.
package bot
