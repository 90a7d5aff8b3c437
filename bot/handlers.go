package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	firstName := ""
	if msg.From != nil {
		firstName = msg.From.FirstName
	}

	b.reply(msg, formatGreeting(firstName), startKeyboard) // nolint: errcheck
}

func (b *Bot) handleIP(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		b.reply(msg, "❌ <b>Usage:</b> <code>/ip [address]</code>", nil) // nolint: errcheck

		return
	}

	ip := args[0]
	if !LooksLikeIPv4(ip) {
		b.reply(msg, fmt.Sprintf("❌ Invalid IP: <code>%s</code>", esc(ip)), nil) // nolint: errcheck

		return
	}

	progress, err := b.reply(msg, fmt.Sprintf("🔍 Checking <code>%s</code>...", esc(ip)), nil)
	if err != nil {
		return
	}

	result := b.resolver.Resolve(ctx, ip)

	if result.Success {
		b.edit(progress, formatReport(result), mapsKeyboard(result))
	} else {
		b.edit(progress, formatFailure(ip, result), nil)
	}
}

func (b *Bot) handleMyIP(ctx context.Context, msg *tgbotapi.Message) {
	ip, err := b.detector.PublicIP(ctx)
	if err != nil {
		b.logger.Warn().Err(err).Msg("Cannot detect public IP")
		b.reply(msg, "❌ Cannot get IP", nil) // nolint: errcheck

		return
	}

	b.reply(msg, formatMyIP(ip, b.resolver.Resolve(ctx, ip)), nil) // nolint: errcheck
}

func (b *Bot) handleBulk(ctx context.Context, msg *tgbotapi.Message) {
	ips := strings.Fields(msg.CommandArguments())
	if len(ips) == 0 {
		b.reply(msg, "❌ <b>Usage:</b> <code>/bulk ip1 ip2 ip3</code>", nil) // nolint: errcheck

		return
	}

	if len(ips) > b.bulkMaxAddresses {
		ips = ips[:b.bulkMaxAddresses]
	}

	progress, err := b.reply(msg, fmt.Sprintf("🔍 Processing %d IPs...", len(ips)), nil)
	if err != nil {
		return
	}

	limiter := rate.NewLimiter(rate.Every(b.bulkPacing), 1)
	lines := make([]string, 0, len(ips))

	for i, ip := range ips {
		if !LooksLikeIPv4(ip) {
			lines = append(lines, formatBulkLine(i+1, ip, nil))

			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			b.logger.Debug().Err(err).Msg("Bulk lookup is interrupted")

			return
		}

		result := b.resolver.Resolve(ctx, ip)
		lines = append(lines, formatBulkLine(i+1, ip, &result))
	}

	b.edit(progress, formatBulk(lines), nil)
}

func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if !LooksLikeIPv4(text) {
		return
	}

	progress, err := b.reply(msg, fmt.Sprintf("🔍 Checking <code>%s</code>...", esc(text)), nil)
	if err != nil {
		return
	}

	b.edit(progress, formatShort(text, b.resolver.Resolve(ctx, text)), nil)
}

func (b *Bot) handleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	switch callback.Data {
	case callbackCheckIP:
		b.answer(callback, "Send me an IP address!")
	case callbackMyIP:
		b.answer(callback, "")

		if callback.Message != nil {
			b.handleMyIP(ctx, callback.Message)
		}
	case callbackBulk:
		b.answer(callback, "Send /bulk ip1 ip2 ip3")
	case callbackSpeed:
		started := time.Now()
		result := b.resolver.Resolve(ctx, b.speedProbeIP)
		elapsed := time.Since(started)

		if !result.Success {
			b.logger.Debug().Str("error", result.Error).Msg("Speed probe has failed")
		}

		b.answer(callback, fmt.Sprintf("⚡ Speed: %dms", elapsed.Milliseconds()))
	default:
		b.answer(callback, "")
	}
}
