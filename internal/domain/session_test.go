package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendSlidesHistoryWindow(t *testing.T) {
	t.Parallel()

	session := NewSession("user-1")
	now := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)

	for i := 0; i < MaxHistory+5; i++ {
		session.Append(RoleUser, fmt.Sprintf("message %d", i), now)
	}

	require.Len(t, session.Messages, MaxHistory)
	assert.Equal(t, "message 5", session.Messages[0].Text)
	assert.Equal(t, fmt.Sprintf("message %d", MaxHistory+4), session.Messages[len(session.Messages)-1].Text)
}

func TestUserTextsFiltersAssistantTurns(t *testing.T) {
	t.Parallel()

	session := NewSession("user-1")
	now := time.Now()
	session.Append(RoleUser, "主角是艾米莉", now)
	session.Append(RoleAssistant, "我懂了！", now)
	session.Append(RoleUser, "她去了森林", now)

	assert.Equal(t, []string{"主角是艾米莉", "她去了森林"}, session.UserTexts())
}

func TestSetParagraphsClampsToMax(t *testing.T) {
	t.Parallel()

	session := NewSession("user-1")
	paragraphs := make([]string, MaxParagraphs+3)
	for i := range paragraphs {
		paragraphs[i] = fmt.Sprintf("paragraph %d", i)
	}

	session.SetParagraphs(paragraphs)
	assert.Len(t, session.Paragraphs, MaxParagraphs)
	assert.Equal(t, "paragraph 0", session.Paragraphs[0])
}

func TestResetStoryKeepsHistory(t *testing.T) {
	t.Parallel()

	session := NewSession("user-1")
	session.Append(RoleUser, "主角是艾米莉", time.Now())
	session.SetParagraphs([]string{"第一段"})
	session.Card("艾米莉").Apply(CardUpdate{TopType: "洋裝"})
	oldID := session.StoryID

	session.ResetStory()

	assert.NotEqual(t, oldID, session.StoryID)
	assert.Empty(t, session.Paragraphs)
	assert.Empty(t, session.Characters)
	assert.Len(t, session.Messages, 1)
}

func TestSnapshotCopiesCards(t *testing.T) {
	t.Parallel()

	session := NewSession("user-1")
	session.SetParagraphs([]string{"第一段", "第二段"})
	session.Card("艾米莉").Apply(CardUpdate{TopType: "洋裝", TopColor: "purple"})

	snap := session.Snapshot()
	require.Equal(t, session.StoryID, snap.StoryID)
	require.Equal(t, []string{"第一段", "第二段"}, snap.Paragraphs)
	require.Contains(t, snap.Cards, "艾米莉")

	// Later card mutations must not leak into the captured snapshot.
	session.Card("艾米莉").Apply(CardUpdate{TopColor: "red"})
	assert.Equal(t, "purple", snap.Cards["艾米莉"].TopColor)
}

func TestOverlayPrefersPersistedState(t *testing.T) {
	t.Parallel()

	session := NewSession("user-1")
	session.SetParagraphs([]string{"舊的段落"})
	session.Card("艾米莉").Apply(CardUpdate{TopType: "上衣"})

	session.Overlay(StorySnapshot{
		StoryID:    "persisted-story",
		Paragraphs: []string{"新的段落"},
		Cards: map[string]CharacterCard{
			"艾米莉": {TopType: "洋裝", TopColor: "purple"},
			"傑克":  {HasHat: true},
		},
	})

	assert.Equal(t, "persisted-story", session.StoryID)
	assert.Equal(t, []string{"新的段落"}, session.Paragraphs)
	assert.Equal(t, "洋裝", session.Characters["艾米莉"].TopType)
	assert.True(t, session.Characters["傑克"].HasHat)
}

func TestOverlayNeverReplacesWithEmpty(t *testing.T) {
	t.Parallel()

	session := NewSession("user-1")
	inMemoryID := session.StoryID
	session.SetParagraphs([]string{"在記憶裡的段落"})
	session.Card("艾米莉").Apply(CardUpdate{TopType: "上衣"})

	session.Overlay(StorySnapshot{})

	assert.Equal(t, inMemoryID, session.StoryID)
	assert.Equal(t, []string{"在記憶裡的段落"}, session.Paragraphs)
	assert.Equal(t, "上衣", session.Characters["艾米莉"].TopType)
}

func TestNewStoryIDIsUnique(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, NewStoryID(), NewStoryID())
}
