package extract

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/olivia-0916/storybot/internal/domain"
)

// consistencyInstruction closes the normalized half of the hint. The image
// backend treats the whole hint as free-form context.
const consistencyInstruction = "Keep every character's appearance consistent across all scenes."

// RenderCards serializes the card map into the bilingual description handed
// to the image backend: a native-script summary followed by one normalized
// line per character. Characters are emitted in sorted identifier order so
// the output is stable across runs. An empty map, or a map holding only empty
// cards, renders to the empty string.
func RenderCards(cards map[string]*domain.CharacterCard) string {
	ids := make([]string, 0, len(cards))
	for id, card := range cards {
		if card == nil || card.Empty() {
			continue
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return ""
	}
	sort.Strings(ids)

	var native strings.Builder
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		card := cards[id]
		native.WriteString(id)
		native.WriteString("：")
		native.WriteString(strings.Join(nativeSegments(*card), "，"))
		native.WriteString("。")

		lines = append(lines, id+": "+strings.Join(normalizedPhrases(*card), " | "))
	}

	return native.String() + "\n" + strings.Join(lines, "\n") + "\n" + consistencyInstruction
}

func nativeSegments(card domain.CharacterCard) []string {
	var segments []string

	if card.TopType != "" {
		segments = append(segments, "穿"+card.TopColorLabel+card.TopType)
	}
	if card.HairColorLabel != "" || card.HairStyle != "" {
		switch {
		case card.HairStyle == "":
			segments = append(segments, "留"+card.HairColorLabel+"頭髮")
		case utf8.RuneCountInString(card.HairStyle) == 1:
			// Single-character styles read as 長髮, 短髮, 捲髮.
			segments = append(segments, "留"+card.HairColorLabel+card.HairStyle+"髮")
		default:
			segments = append(segments, "留"+card.HairColorLabel+card.HairStyle)
		}
	}
	if card.HasGlasses {
		segments = append(segments, "戴眼鏡")
	}
	if card.HasHat {
		segments = append(segments, "戴帽子")
	}
	if card.HasBeard {
		segments = append(segments, "有鬍子")
	}
	if card.GenderHint != "" {
		segments = append(segments, "是"+card.GenderHint)
	}

	return segments
}

func normalizedPhrases(card domain.CharacterCard) []string {
	var phrases []string

	if card.TopType != "" {
		phrase := Token(Garments, card.TopType)
		if card.TopColor != "" {
			phrase = card.TopColor + " " + phrase
		}
		phrases = append(phrases, phrase)
	}
	if card.HairColor != "" || card.HairStyle != "" {
		parts := make([]string, 0, 3)
		if card.HairColor != "" {
			parts = append(parts, card.HairColor)
		}
		if card.HairStyle != "" {
			parts = append(parts, Token(HairStyles, card.HairStyle))
		}
		parts = append(parts, "hair")
		phrases = append(phrases, strings.Join(parts, " "))
	}
	if card.HasGlasses {
		phrases = append(phrases, "wearing glasses")
	}
	if card.HasHat {
		phrases = append(phrases, "wearing a hat")
	}
	if card.HasBeard {
		phrases = append(phrases, "has a beard")
	}
	if card.GenderHint != "" {
		phrases = append(phrases, Token(GenderHints, card.GenderHint))
	}

	return phrases
}
