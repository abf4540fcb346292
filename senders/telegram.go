package senders

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type telegramSender struct {
	base

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

func (t *telegramSender) Send(ctx context.Context, recipient string, text string) (int64, error) {
	bot, chatID, err := t.prepare(recipient)
	if err != nil {
		return 0, err
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	sent, err := bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("%w: telegram send to %s: %v", ErrTransport, recipient, err)
	}
	return int64(sent.MessageID), nil
}

func (t *telegramSender) Edit(ctx context.Context, recipient string, messageID int64, text string) error {
	bot, chatID, err := t.prepare(recipient)
	if err != nil {
		return err
	}

	edit := tgbotapi.NewEditMessageText(chatID, int(messageID), text)
	edit.ParseMode = tgbotapi.ModeHTML

	if _, err := bot.Send(edit); err != nil {
		// Re-editing with identical content is a success by the sink
		// contract, not an error.
		if strings.Contains(err.Error(), "message is not modified") {
			return nil
		}
		return fmt.Errorf("%w: telegram edit %d for %s: %v", ErrTransport, messageID, recipient, err)
	}
	return nil
}

func (t *telegramSender) prepare(recipient string) (*tgbotapi.BotAPI, int64, error) {
	chatID, err := strconv.ParseInt(recipient, 10, 64)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: bad telegram chat id %q", ErrTransport, recipient)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.bot == nil {
		bot, err := tgbotapi.NewBotAPIWithClient(
			t.cfg.TelegramToken,
			tgbotapi.APIEndpoint,
			&http.Client{Transport: t.transport},
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: telegram auth: %v", ErrTransport, err)
		}
		t.bot = bot
	}
	return t.bot, chatID, nil
}
