package ports

import (
	"context"

	"github.com/olivia-0916/storybot/internal/domain"
)

// SnapshotRepository persists the story-scoped session state. Absence is a
// valid state (new user) and is reported as domain.ErrSnapshotNotFound. The
// engine treats the store as best-effort: callers log and swallow failures,
// keeping the in-memory session authoritative.
type SnapshotRepository interface {
	Load(ctx context.Context, key domain.SessionKey) (domain.StorySnapshot, error)
	Save(ctx context.Context, key domain.SessionKey, snapshot domain.StorySnapshot) error
}
