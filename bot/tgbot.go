package bot

import (
	"HereToHelp/internal/config"
	"HereToHelp/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

const (
	queueSize   = 64
	sendTimeout = 10 * time.Second
	// Telegram rejects longer texts.
	maxMessageLength = 4096
)

type sender interface {
	SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error)
}

// TgBot forwards operational alerts to the admin chat.
type TgBot struct {
	log         *slog.Logger
	api         sender
	botUsername string
	adminId     int64
	queue       chan string
}

func NewTgBot(conf *config.Config, log *slog.Logger) (*TgBot, error) {
	api, err := tgbotapi.NewBot(conf.Telegram.ApiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	return newTgBot(api, conf.Telegram.BotName, conf.Telegram.AdminId, log), nil
}

func newTgBot(api sender, botName string, adminId int64, log *slog.Logger) *TgBot {
	return &TgBot{
		log:         log.With(sl.Module("tgbot")),
		api:         api,
		botUsername: botName,
		adminId:     adminId,
		queue:       make(chan string, queueSize),
	}
}

// Start delivers queued messages until ctx is done.
func (t *TgBot) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-t.queue:
			t.plainResponse(t.adminId, msg)
		}
	}
}

// SendMessage queues an alert; it never blocks the caller and drops the
// message when the queue is full.
func (t *TgBot) SendMessage(msg string) {
	select {
	case t.queue <- msg:
	default:
	}
}

func (t *TgBot) plainResponse(chatId int64, text string) {
	// escaping can double the length
	text = truncate(text, maxMessageLength/2)
	sanitized := sanitize(text)
	if sanitized == "" {
		t.log.With(
			slog.Int64("id", chatId),
		).Debug("empty message")
		return
	}

	opts := &tgbotapi.SendMessageOpts{
		ParseMode:   "MarkdownV2",
		RequestOpts: &tgbotapi.RequestOpts{Timeout: sendTimeout},
	}
	_, err := t.api.SendMessage(chatId, sanitized, opts)
	if err == nil {
		return
	}
	t.log.With(
		slog.Int64("id", chatId),
	).Warn("sending message", sl.Err(err))
	_, err = t.api.SendMessage(chatId, text, &tgbotapi.SendMessageOpts{
		RequestOpts: &tgbotapi.RequestOpts{Timeout: sendTimeout},
	})
	if err != nil {
		t.log.With(
			slog.Int64("id", chatId),
		).Warn("sending safe message", sl.Err(err))
	}
}

// truncate cuts text to at most limit runes.
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-3]) + "..."
}

// sanitize escapes the MarkdownV2 reserved characters.
func sanitize(input string) string {
	const reservedChars = "\\`_*{}[]()#+-.!|>~="

	var b strings.Builder
	for _, char := range input {
		if strings.ContainsRune(reservedChars, char) {
			b.WriteByte('\\')
		}
		b.WriteRune(char)
	}
	return b.String()
}
