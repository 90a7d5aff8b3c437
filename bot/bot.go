package bot

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

const (
	DefaultBulkMaxAddresses = 4
	DefaultBulkPacing       = 300 * time.Millisecond
	DefaultSpeedProbeIP     = "8.8.8.8"
)

type Opts struct {
	API      API
	Resolver Resolver
	Detector PublicIPDetector
	Logger   zerolog.Logger

	// BulkMaxAddresses is a maximal number of addresses taken from
	// /bulk command. The rest is ignored.
	BulkMaxAddresses int

	// BulkPacing is a delay between successive lookups of /bulk
	// command.
	BulkPacing time.Duration

	// SpeedProbeIP is resolved when user asks to measure a speed.
	SpeedProbeIP string
}

type Bot struct {
	api      API
	resolver Resolver
	detector PublicIPDetector
	logger   zerolog.Logger

	bulkMaxAddresses int
	bulkPacing       time.Duration
	speedProbeIP     string
}

// HandleUpdate routes an update to the corresponding handler. All
// errors are logged, nothing is returned: there is nobody to return
// them to.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message != nil:
		b.handleText(ctx, update.Message)
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	default:
		b.logger.Debug().Int("update_id", update.UpdateID).Msg("Skip unsupported update")
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start", "help":
		b.handleStart(msg)
	case "ip":
		b.handleIP(ctx, msg)
	case "myip":
		b.handleMyIP(ctx, msg)
	case "bulk":
		b.handleBulk(ctx, msg)
	default:
		b.logger.Debug().Str("command", msg.Command()).Msg("Unknown command")
	}
}

func (b *Bot) reply(msg *tgbotapi.Message, text string, markup interface{}) (tgbotapi.Message, error) {
	config := tgbotapi.NewMessage(msg.Chat.ID, text)
	config.ParseMode = tgbotapi.ModeHTML
	config.ReplyToMessageID = msg.MessageID

	if markup != nil {
		config.ReplyMarkup = markup
	}

	sent, err := b.api.Send(config)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("Cannot send a message")
	}

	return sent, err
}

func (b *Bot) edit(msg tgbotapi.Message, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	config := tgbotapi.NewEditMessageText(msg.Chat.ID, msg.MessageID, text)
	config.ParseMode = tgbotapi.ModeHTML
	config.ReplyMarkup = markup

	if _, err := b.api.Request(config); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("Cannot edit a message")
	}
}

func (b *Bot) answer(callback *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, text)); err != nil {
		b.logger.Error().Err(err).Str("callback_id", callback.ID).Msg("Cannot answer a callback")
	}
}

func New(opts Opts) *Bot {
	rv := &Bot{
		api:              opts.API,
		resolver:         opts.Resolver,
		detector:         opts.Detector,
		logger:           opts.Logger,
		bulkMaxAddresses: opts.BulkMaxAddresses,
		bulkPacing:       opts.BulkPacing,
		speedProbeIP:     opts.SpeedProbeIP,
	}

	if rv.bulkMaxAddresses <= 0 {
		rv.bulkMaxAddresses = DefaultBulkMaxAddresses
	}

	if rv.bulkPacing <= 0 {
		rv.bulkPacing = DefaultBulkPacing
	}

	if rv.speedProbeIP == "" {
		rv.speedProbeIP = DefaultSpeedProbeIP
	}

	return rv
}
