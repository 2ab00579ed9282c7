package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olivia-0916/storybot/internal/domain"
)

func TestExtractClause(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		clause string
		want   domain.CardUpdate
	}{
		{
			name:   "garment with color",
			clause: "艾米莉穿紫色洋裝",
			want:   domain.CardUpdate{TopColorLabel: "紫色", TopColor: "purple", TopType: "洋裝"},
		},
		{
			name:   "garment without color",
			clause: "他穿著外套",
			want:   domain.CardUpdate{TopType: "外套"},
		},
		{
			name:   "hair color and style",
			clause: "她留著黑色長髮",
			want:   domain.CardUpdate{HairColorLabel: "黑色", HairColor: "black", HairStyle: "長"},
		},
		{
			name:   "hair color only",
			clause: "她的頭髮是金色",
			want:   domain.CardUpdate{HairColorLabel: "金色", HairColor: "blonde"},
		},
		{
			name:   "glasses and hat share the wear marker",
			clause: "小明戴著眼鏡和帽子",
			want:   domain.CardUpdate{Glasses: true, Hat: true},
		},
		{
			name:   "glasses without wear marker do not trigger",
			clause: "桌上放著一副眼鏡",
			want:   domain.CardUpdate{},
		},
		{
			name:   "beard with gender hint",
			clause: "爸爸有鬍子",
			want:   domain.CardUpdate{GenderHint: "爸爸", Beard: true},
		},
		{
			name:   "gender hint only",
			clause: "艾米莉是女孩",
			want:   domain.CardUpdate{GenderHint: "女孩"},
		},
		{
			name:   "color alone is not an attribute",
			clause: "天空有紅色的氣球",
			want:   domain.CardUpdate{},
		},
		{
			name:   "no trigger",
			clause: "今天天氣很好",
			want:   domain.CardUpdate{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, ExtractClause(tc.clause))
		})
	}
}

// Two colors in one clause: the lexicon order decides, not the text order.
// 紅色 sits ahead of 藍色 in the color lexicon, so it wins even when 藍色
// appears first in the clause.
func TestExtractClauseColorUsesLexiconOrder(t *testing.T) {
	t.Parallel()

	update := ExtractClause("穿著藍色和紅色的外套")
	assert.Equal(t, "紅色", update.TopColorLabel)
	assert.Equal(t, "red", update.TopColor)
	assert.Equal(t, "外套", update.TopType)
}

func TestObserveAttributesPerClause(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	session := domain.NewSession("user-1")

	changed := engine.Observe(session, "艾米莉穿紫色洋裝；傑克穿藍色外套")
	require.True(t, changed)
	require.Len(t, session.Characters, 2)

	emily := session.Characters["艾米莉"]
	require.NotNil(t, emily)
	assert.Equal(t, "purple", emily.TopColor)
	assert.Equal(t, "洋裝", emily.TopType)

	jack := session.Characters["傑克"]
	require.NotNil(t, jack)
	assert.Equal(t, "blue", jack.TopColor)
	assert.Equal(t, "外套", jack.TopType)
}

func TestObserveFallsBackToProtagonist(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	session := domain.NewSession("user-1")

	require.True(t, engine.Observe(session, "穿著紅色上衣"))
	require.Len(t, session.Characters, 1)

	card := session.Characters[Protagonist]
	require.NotNil(t, card)
	assert.Equal(t, "red", card.TopColor)
	assert.Equal(t, "上衣", card.TopType)
}

func TestObserveWithoutTriggersMutatesNothing(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	session := domain.NewSession("user-1")

	// Naming a character without describing them must not create a card.
	assert.False(t, engine.Observe(session, "艾米莉很開心。今天天氣很好！"))
	assert.Empty(t, session.Characters)
}

func TestObserveEnrichesMonotonically(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	session := domain.NewSession("user-1")

	require.True(t, engine.Observe(session, "艾米莉留著黑色長髮"))
	card := session.Characters["艾米莉"]
	require.NotNil(t, card)
	assert.Equal(t, "black", card.HairColor)
	assert.Equal(t, "長", card.HairStyle)

	// A later color observation overwrites the color but keeps the style.
	require.True(t, engine.Observe(session, "艾米莉的頭髮變成金色"))
	assert.Equal(t, "blonde", card.HairColor)
	assert.Equal(t, "長", card.HairStyle)
}

func TestObserveRestatementStillReportsChange(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)
	session := domain.NewSession("user-1")

	assert.True(t, engine.Observe(session, "傑克穿藍色外套"))
	assert.True(t, engine.Observe(session, "傑克穿藍色外套"))
}
