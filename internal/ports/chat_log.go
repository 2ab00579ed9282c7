package ports

import (
	"context"
	"time"

	"github.com/olivia-0916/storybot/internal/domain"
)

// ChatLogger appends chat turns to the durable log. Fire-and-forget: failures
// are non-fatal and never retried.
type ChatLogger interface {
	Append(ctx context.Context, key domain.SessionKey, role domain.Role, text string, at time.Time) error
}
