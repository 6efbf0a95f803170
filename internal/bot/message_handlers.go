package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"newsbrief/internal/pipeline"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `📰 *News summaries*

Send me any news topic, for example _Earthquake in Japan_ or _EU AI regulation_\.

I will find a few recent articles about it, read them and reply with one neutral summary\. When the sources disagree, the summary says so\.`

const (
	blankTopicText   = "✖️ Please enter a valid news topic\\."
	invalidTopicText = "✖️ Please enter a relevant topic of news\\."
	failedText       = "❌ Failed to summarize the topic\\. Please try again later\\."
)

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	// /start, /help and unknown commands all get the usage text.
	if message.IsCommand() {
		return b.sendMessage(ctx, message.Chat.ID, helpText, nil)
	}

	return b.handleTopic(ctx, message.Chat.ID, message.Text)
}

func (b *Bot) handleTopic(ctx context.Context, chatID int64, text string) error {
	topic := strings.TrimSpace(text)
	if topic == "" {
		return b.sendMessage(ctx, chatID, blankTopicText, nil)
	}

	return b.withSpinner(ctx, chatID, func() error {
		digest, err := b.runner.Run(ctx, topic)
		if err != nil {
			reply := failedText

			switch {
			case errors.Is(err, pipeline.ErrBlankTopic):
				reply = blankTopicText
			case errors.Is(err, pipeline.ErrInvalidTopic):
				reply = invalidTopicText
			}

			var errs []error
			if !pipeline.IsUserInput(err) {
				errs = append(errs, fmt.Errorf("run pipeline: %w", err))
			}

			if sendErr := b.sendMessage(ctx, chatID, reply, nil); sendErr != nil {
				errs = append(errs, fmt.Errorf("send message: %w", sendErr))
			}

			return errors.Join(errs...)
		}

		var errs []error
		for _, message := range formatDigest(topic, digest) {
			if err = b.sendMessage(ctx, chatID, message, refreshKeyboard(topic)); err != nil {
				errs = append(errs, fmt.Errorf("send message: %w", err))
			}
		}

		return errors.Join(errs...)
	})
}
