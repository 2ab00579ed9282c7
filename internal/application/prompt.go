package application

import "strings"

// BaseStyle pins the illustration look so every scene comes back in the same
// storybook register.
const BaseStyle = "watercolor storybook illustration, warm earthy palette, soft brush textures, " +
	"clean composition, child-friendly shapes, consistent character design. " +
	"No text, letters, logos, watermarks, signage, or brand names."

// ScenePrompt assembles the full image prompt: base style, the scene
// paragraph, the user's extra wishes, and the rendered character-card hint.
func ScenePrompt(paragraph, extra, cardHint string) string {
	parts := []string{BaseStyle, "Scene: " + paragraph}
	if extra != "" {
		parts = append(parts, extra)
	}
	if cardHint != "" {
		parts = append(parts, cardHint)
	}
	return strings.Join(parts, " ")
}
