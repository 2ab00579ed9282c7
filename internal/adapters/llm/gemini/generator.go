// Package gemini renders scene prompts into images with the Gemini API's
// Imagen models.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"github.com/olivia-0916/storybot/internal/ports"
)

const defaultModel = "imagen-3.0-generate-002"

type Generator struct {
	client *genai.Client
	model  string
}

var _ ports.ImageGenerator = (*Generator)(nil)

func NewGenerator(ctx context.Context, apiKey string) (*Generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}

	return &Generator{client: client, model: defaultModel}, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.model, prompt, nil)
	if err != nil {
		return nil, fmt.Errorf("generate image: %w", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, errors.New("generate image: empty response")
	}

	return resp.GeneratedImages[0].Image.ImageBytes, nil
}
