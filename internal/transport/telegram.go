// Package transport connects the command router to Telegram.
//
// The adapter owns the long-poll loop and the reply sink; the router never
// sees tgbotapi types. Each incoming message is handled on its own goroutine,
// so a slow TMDB call during one add never blocks other commands, and a
// panic in one handler is recovered without touching the rest.
package transport

import (
	"context"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/kylemdonovan/moviebot/internal/metrics"
	"github.com/kylemdonovan/moviebot/internal/telemetry"
)

// Handler processes one incoming message and returns the replies to send.
// *bot.Router satisfies it.
type Handler interface {
	HandleMessage(ctx context.Context, text string) []string
}

// sender is the slice of tgbotapi.BotAPI the adapter needs. Tests substitute
// a recording fake.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram is the chat transport adapter.
type Telegram struct {
	api     *tgbotapi.BotAPI
	send    sender
	handler Handler
	log     *slog.Logger
}

// NewTelegram authenticates against the Telegram Bot API.
func NewTelegram(token string, handler Handler, log *slog.Logger) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{api: api, send: api, handler: handler, log: log}, nil
}

// Run polls for updates until ctx is cancelled. Replies are fire-and-forget:
// a failed send is logged and dropped, never retried.
func (t *Telegram) Run(ctx context.Context) error {
	t.log.Info("connected to Telegram", "username", t.api.Self.UserName)

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := t.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			t.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			msg := update.Message
			go func() {
				defer telemetry.RecoverMessage(t.log, msg.Text)
				t.handleMessage(ctx, msg.Chat.ID, msg.Text)
			}()
		}
	}
}

// handleMessage routes one message and sends each reply chunk in order.
func (t *Telegram) handleMessage(ctx context.Context, chatID int64, text string) {
	for _, reply := range t.handler.HandleMessage(ctx, text) {
		metrics.ReplyChunks.Inc()
		if _, err := t.send.Send(tgbotapi.NewMessage(chatID, reply)); err != nil {
			t.log.Error("failed to send reply", "chat_id", chatID, "error", err)
		}
	}
}
