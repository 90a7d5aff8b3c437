package bot

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/iplocator-bot/iplocator/geolib"
)

const separator = "━━━━━━━━━━━━━━━━━━"

const (
	callbackCheckIP = "check_ip"
	callbackMyIP    = "my_ip"
	callbackBulk    = "bulk"
	callbackSpeed   = "speed"
)

var startKeyboard = tgbotapi.NewInlineKeyboardMarkup(
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🔍 Check IP", callbackCheckIP),
		tgbotapi.NewInlineKeyboardButtonData("🌐 My IP", callbackMyIP),
	),
	tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("📊 Bulk Check", callbackBulk),
		tgbotapi.NewInlineKeyboardButtonData("⚡ Speed", callbackSpeed),
	),
)

func esc(text string) string {
	return html.EscapeString(text)
}

func formatGreeting(firstName string) string {
	return "🤖 <b>RYZUMI IP LOCATOR BOT</b>\n" +
		separator + "\n" +
		"👋 Hello " + esc(firstName) + "!\n\n" +
		"<b>Quick Usage:</b>\n" +
		"• Send any IP address\n" +
		"• <code>/ip 8.8.8.8</code>\n" +
		"• <code>/myip</code> - Bot public IP\n" +
		"• <code>/bulk ip1 ip2 ip3</code>\n\n" +
		"<i>Powered by Ryzumi API</i>"
}

func formatCountry(result geolib.LookupResult) string {
	if name := result.CountryName(); name != "" {
		return esc(result.Country) + " (" + esc(name) + ")"
	}

	return esc(result.Country)
}

func formatReport(result geolib.LookupResult) string {
	builder := strings.Builder{}

	builder.WriteString("✅ <b>IP LOCATION FOUND</b>\n")
	builder.WriteString(separator + "\n")
	fmt.Fprintf(&builder, "<b>IP Address:</b> <code>%s</code>\n", esc(result.IP))
	fmt.Fprintf(&builder, "<b>Location:</b> %s, %s\n", esc(result.City), esc(result.Region))
	fmt.Fprintf(&builder, "<b>Country:</b> %s\n", formatCountry(result))
	fmt.Fprintf(&builder, "<b>ISP/Org:</b> %s\n", esc(result.Org))
	fmt.Fprintf(&builder, "<b>Timezone:</b> %s", esc(result.Timezone))

	return builder.String()
}

func formatFailure(ip string, result geolib.LookupResult) string {
	return fmt.Sprintf("❌ Failed: <code>%s</code>\nError: %s", esc(ip), esc(result.Error))
}

func formatShort(ip string, result geolib.LookupResult) string {
	if !result.Success {
		return fmt.Sprintf("❌ <b>%s</b> → %s", esc(ip), esc(result.Error))
	}

	return fmt.Sprintf("📍 <b>%s</b> → %s, %s\n🔧 %s",
		esc(ip), esc(result.City), esc(result.Country), esc(result.Org))
}

func formatMyIP(ip string, result geolib.LookupResult) string {
	if !result.Success {
		return fmt.Sprintf("🌐 <b>Bot public IP:</b> <code>%s</code>", esc(ip))
	}

	return fmt.Sprintf("🌐 <b>Bot public IP:</b> <code>%s</code>\n📍 Location: %s, %s\n🔧 ISP: %s",
		esc(ip), esc(result.City), esc(result.Country), esc(result.Org))
}

func formatBulkLine(idx int, ip string, result *geolib.LookupResult) string {
	switch {
	case result == nil:
		return fmt.Sprintf("%d. ⚠️ %s - Invalid", idx, esc(ip))
	case result.Success:
		return fmt.Sprintf("%d. ✅ %s - %s, %s", idx, esc(ip), esc(result.City), esc(result.Country))
	}

	return fmt.Sprintf("%d. ❌ %s - Failed", idx, esc(ip))
}

func formatBulk(lines []string) string {
	return "📊 <b>Bulk Results:</b>\n" + separator + "\n" + strings.Join(lines, "\n")
}

// mapsKeyboard returns nil if coordinates are unknown.
func mapsKeyboard(result geolib.LookupResult) *tgbotapi.InlineKeyboardMarkup {
	lat, lon, ok := result.Coordinates()
	if !ok {
		return nil
	}

	query := url.Values{}

	query.Set("q", strings.TrimSpace(lat)+","+strings.TrimSpace(lon))

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL("🗺️ Google Maps", "https://maps.google.com/?"+query.Encode()),
		),
	)

	return &markup
}
