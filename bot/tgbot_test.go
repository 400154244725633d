package bot

import (
	"context"
	"errors"
	"sync"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct {
	chatId    int64
	text      string
	parseMode string
}

type fakeApi struct {
	mu       sync.Mutex
	messages []sent
	failMd   bool
}

func (f *fakeApi) SendMessage(chatId int64, text string, opts *tgbotapi.SendMessageOpts) (*tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMd && opts.ParseMode != "" {
		return nil, errors.New("can't parse entities")
	}
	f.messages = append(f.messages, sent{chatId: chatId, text: text, parseMode: opts.ParseMode})
	return &tgbotapi.Message{}, nil
}

func (f *fakeApi) sent() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.messages...)
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, `ERROR: outbox\-item 1\.5 \(failed\)`, sanitize("ERROR: outbox-item 1.5 (failed)"))
	assert.Equal(t, "plain", sanitize("plain"))
}

func TestTgBot_DeliversQueuedMessages(t *testing.T) {
	api := &fakeApi{}
	b := newTgBot(api, "bot", 42, slogt.New(t))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Start(ctx)

	b.SendMessage("submission failed")

	require.Eventually(t, func() bool { return len(api.sent()) == 1 }, time.Second, 10*time.Millisecond)
	msg := api.sent()[0]
	assert.Equal(t, int64(42), msg.chatId)
	assert.Equal(t, "MarkdownV2", msg.parseMode)
	assert.Equal(t, "submission failed", msg.text)
}

func TestTgBot_FallsBackToPlainText(t *testing.T) {
	api := &fakeApi{failMd: true}
	b := newTgBot(api, "bot", 42, slogt.New(t))

	b.plainResponse(42, "a.b")

	msgs := api.sent()
	require.Len(t, msgs, 1)
	assert.Empty(t, msgs[0].parseMode)
	assert.Equal(t, "a.b", msgs[0].text)
}

func TestTgBot_SendMessageNeverBlocks(t *testing.T) {
	b := newTgBot(&fakeApi{}, "bot", 42, slogt.New(t))

	for i := 0; i < queueSize*2; i++ {
		b.SendMessage("alert")
	}
	assert.Len(t, b.queue, queueSize)
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	text := strings.Repeat("ї", maxMessageLength)

	cut := truncate(text, maxMessageLength/2)
	assert.True(t, utf8.ValidString(cut))
	assert.Equal(t, maxMessageLength/2, utf8.RuneCountInString(cut))
	assert.True(t, strings.HasSuffix(cut, "..."))

	assert.Equal(t, "short", truncate("short", 10))
}

func TestTgBot_LongAlertStaysValid(t *testing.T) {
	api := &fakeApi{}
	b := newTgBot(api, "bot", 42, slogt.New(t))

	b.plainResponse(42, strings.Repeat("помилка ", 1000))

	msgs := api.sent()
	require.Len(t, msgs, 1)
	assert.True(t, utf8.ValidString(msgs[0].text))
}
