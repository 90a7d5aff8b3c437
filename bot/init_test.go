package bot_test

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/iplocator-bot/iplocator/geolib"
	"github.com/stretchr/testify/mock"
)

type APIMock struct {
	mock.Mock
}

func (m *APIMock) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	args := m.Called(c)

	return args.Get(0).(tgbotapi.Message), args.Error(1)
}

func (m *APIMock) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	args := m.Called(c)

	return &tgbotapi.APIResponse{Ok: args.Error(0) == nil}, args.Error(0)
}

type ResolverMock struct {
	mock.Mock
}

func (m *ResolverMock) Resolve(ctx context.Context, ip string) geolib.LookupResult {
	return m.Called(ctx, ip).Get(0).(geolib.LookupResult)
}

type DetectorMock struct {
	mock.Mock
}

func (m *DetectorMock) PublicIP(ctx context.Context) (string, error) {
	args := m.Called(ctx)

	return args.String(0), args.Error(1)
}

type DispatcherMock struct {
	mock.Mock
}

func (m *DispatcherMock) Dispatch(update tgbotapi.Update) error {
	return m.Called(update).Error(0)
}

const testChatID int64 = 42

func newMessage(text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		MessageID: 10,
		From:      &tgbotapi.User{ID: 7, FirstName: "Alex"},
		Chat:      &tgbotapi.Chat{ID: testChatID},
		Text:      text,
	}

	if strings.HasPrefix(text, "/") {
		command := strings.Fields(text)[0]
		msg.Entities = []tgbotapi.MessageEntity{{
			Type:   "bot_command",
			Offset: 0,
			Length: len(command),
		}}
	}

	return msg
}

func sentMessage(id int) tgbotapi.Message {
	return tgbotapi.Message{
		MessageID: id,
		Chat:      &tgbotapi.Chat{ID: testChatID},
	}
}

func messageWith(substring string) interface{} {
	return mock.MatchedBy(func(c tgbotapi.MessageConfig) bool {
		return c.ChatID == testChatID &&
			c.ParseMode == tgbotapi.ModeHTML &&
			strings.Contains(c.Text, substring)
	})
}

func editWith(substring string) interface{} {
	return mock.MatchedBy(func(c tgbotapi.EditMessageTextConfig) bool {
		return c.ChatID == testChatID &&
			c.MessageID == 11 &&
			strings.Contains(c.Text, substring)
	})
}

var googleDNS = geolib.LookupResult{
	Success:  true,
	IP:       "8.8.8.8",
	City:     "Mountain View",
	Region:   "California",
	Country:  "US",
	Location: "37.4,-122.1",
	Org:      "Google LLC",
	Timezone: "America/Los_Angeles",
}
