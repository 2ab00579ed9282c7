package server

import (
	"context"
	"fmt"

	"github.com/line/line-bot-sdk-go/v7/linebot"

	"github.com/olivia-0916/storybot/internal/domain"
	"github.com/olivia-0916/storybot/internal/ports"
)

// PushNotifier delivers render results as LINE push messages, outside any
// webhook reply window.
type PushNotifier struct {
	bot *linebot.Client
}

var _ ports.Notifier = (*PushNotifier)(nil)

func NewPushNotifier(bot *linebot.Client) *PushNotifier {
	return &PushNotifier{bot: bot}
}

func (n *PushNotifier) NotifyText(ctx context.Context, to domain.SessionKey, text string) error {
	if _, err := n.bot.PushMessage(string(to), linebot.NewTextMessage(text)).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("push text to %s: %w", to, err)
	}
	return nil
}

func (n *PushNotifier) NotifyImage(ctx context.Context, to domain.SessionKey, url string) error {
	if _, err := n.bot.PushMessage(string(to), linebot.NewImageMessage(url, url)).WithContext(ctx).Do(); err != nil {
		return fmt.Errorf("push image to %s: %w", to, err)
	}
	return nil
}
