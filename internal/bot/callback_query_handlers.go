package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	refreshCallbackPrefix = "refresh:"
	maxCallbackDataBytes  = 64
)

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	chatID := callbackChatID(callback)
	if chatID == 0 {
		return b.emptyCallbackAnswer(callback.ID)
	}

	topic, ok := strings.CutPrefix(callback.Data, refreshCallbackPrefix)
	if !ok {
		return b.emptyCallbackAnswer(callback.ID)
	}

	var errs []error
	if err := b.emptyCallbackAnswer(callback.ID); err != nil {
		errs = append(errs, err)
	}

	if err := b.handleTopic(ctx, chatID, topic); err != nil {
		errs = append(errs, fmt.Errorf("handle topic: %w", err))
	}

	return errors.Join(errs...)
}

func (b *Bot) emptyCallbackAnswer(callbackID string) error {
	if _, err := b.sender.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("answer callback query: %w", err)
	}

	return nil
}

// refreshKeyboard returns nil when the topic does not fit into callback data.
func refreshKeyboard(topic string) [][]tgbotapi.InlineKeyboardButton {
	data := refreshCallbackPrefix + topic
	if len(data) > maxCallbackDataBytes {
		return nil
	}

	return [][]tgbotapi.InlineKeyboardButton{
		{tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", data)},
	}
}
