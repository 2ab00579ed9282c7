package ports

import (
	"context"

	"github.com/olivia-0916/storybot/internal/domain"
)

// Notifier delivers out-of-band messages to the user, outside the webhook
// request/response cycle. The render worker uses it to report finished scenes
// and failures.
type Notifier interface {
	NotifyText(ctx context.Context, to domain.SessionKey, text string) error
	NotifyImage(ctx context.Context, to domain.SessionKey, url string) error
}
