package toml

import "github.com/olivia-0916/storybot/internal/domain"

type fileSchema struct {
	Stories []storySchema `toml:"stories"`
}

type storySchema struct {
	Key        string                          `toml:"key"`
	StoryID    string                          `toml:"story_id"`
	Paragraphs []string                        `toml:"paragraphs,omitempty"`
	Cards      map[string]domain.CharacterCard `toml:"cards,omitempty"`
}

func toSchema(key domain.SessionKey, snapshot domain.StorySnapshot) storySchema {
	return storySchema{
		Key:        string(key),
		StoryID:    snapshot.StoryID,
		Paragraphs: snapshot.Paragraphs,
		Cards:      snapshot.Cards,
	}
}

func fromSchema(entry storySchema) domain.StorySnapshot {
	return domain.StorySnapshot{
		StoryID:    entry.StoryID,
		Paragraphs: entry.Paragraphs,
		Cards:      entry.Cards,
	}
}
