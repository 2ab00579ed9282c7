package toml

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivia-0916/storybot/internal/domain"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	config := viper.New()
	config.Set("storage.path", filepath.Join(t.TempDir(), "stories.toml"))

	repo, err := NewRepository(config)
	require.NoError(t, err)
	return repo
}

func TestRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	snapshot := domain.StorySnapshot{
		StoryID:    "story-1",
		Paragraphs: []string{"艾米莉走進森林", "她遇見一隻狐狸"},
		Cards: map[string]domain.CharacterCard{
			"艾米莉": {
				TopColorLabel: "紫色",
				TopColor:      "purple",
				TopType:       "洋裝",
				HasGlasses:    true,
			},
		},
	}

	require.NoError(t, repo.Save(ctx, "user-1", snapshot))

	got, err := repo.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, snapshot, got)
}

func TestRepositoryLoadMissingKey(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)

	_, err := repo.Load(context.Background(), "stranger")
	assert.ErrorIs(t, err, domain.ErrSnapshotNotFound)
}

func TestRepositorySaveOverwritesExistingKey(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "user-1", domain.StorySnapshot{StoryID: "story-1"}))
	require.NoError(t, repo.Save(ctx, "user-1", domain.StorySnapshot{
		StoryID:    "story-2",
		Paragraphs: []string{"新的段落"},
	}))

	got, err := repo.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "story-2", got.StoryID)
	assert.Equal(t, []string{"新的段落"}, got.Paragraphs)
}

func TestRepositoryKeepsUsersSeparate(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "user-1", domain.StorySnapshot{StoryID: "story-a"}))
	require.NoError(t, repo.Save(ctx, "user-2", domain.StorySnapshot{StoryID: "story-b"}))

	first, err := repo.Load(ctx, "user-1")
	require.NoError(t, err)
	second, err := repo.Load(ctx, "user-2")
	require.NoError(t, err)

	assert.Equal(t, "story-a", first.StoryID)
	assert.Equal(t, "story-b", second.StoryID)
}

func TestRepositoryHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	repo := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, repo.Save(ctx, "user-1", domain.StorySnapshot{StoryID: "story-1"}))
	_, err := repo.Load(ctx, "user-1")
	assert.Error(t, err)
}
