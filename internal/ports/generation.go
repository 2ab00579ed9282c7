package ports

import "context"

// Summarizer turns the recent user-authored story text into at most five
// narrative paragraphs.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string) ([]string, error)
}

// ImageGenerator renders one scene prompt into image bytes (PNG).
type ImageGenerator interface {
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// ImageStore uploads image bytes and returns a URL the chat transport can
// serve to the user.
type ImageStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
}
