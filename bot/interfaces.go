package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/iplocator-bot/iplocator/geolib"
)

// API is a subset of *tgbotapi.BotAPI used by the bot.
type API interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Resolver interface {
	Resolve(ctx context.Context, ip string) geolib.LookupResult
}

type PublicIPDetector interface {
	PublicIP(ctx context.Context) (string, error)
}

type UpdateDispatcher interface {
	Dispatch(update tgbotapi.Update) error
}
