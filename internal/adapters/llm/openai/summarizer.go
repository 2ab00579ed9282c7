// Package openai summarizes the accumulated story text with an OpenAI chat
// model through langchaingo. The client reads OPENAI_API_KEY from the
// environment.
package openai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/olivia-0916/storybot/internal/domain"
	"github.com/olivia-0916/storybot/internal/ports"
)

const (
	defaultModel = "gpt-4o-mini"

	// compactTailTexts bounds how many recent user messages feed one
	// summarization call.
	compactTailTexts = 8
	// compactTokenBudget caps the compacted text, dropping the oldest
	// messages first.
	compactTokenBudget = 2000
)

const summaryInstruction = "請將以下對話整理成 5 段完整故事，每段 2–3 句（約 60–120 字），" +
	"每段需自然呈現場景、角色、主要動作與關鍵物件，不要列點外的額外說明。" +
	"輸出以 1.~5. 條列。"

var numberPrefix = regexp.MustCompile(`^\d+\.?\s*`)

type Summarizer struct {
	model   llms.Model
	encoder *tiktoken.Tiktoken
}

var _ ports.Summarizer = (*Summarizer)(nil)

func NewSummarizer() (*Summarizer, error) {
	model, err := lcopenai.New(lcopenai.WithModel(defaultModel))
	if err != nil {
		return nil, fmt.Errorf("init openai client: %w", err)
	}

	encoder, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("init token encoder: %w", err)
	}

	return &Summarizer{model: model, encoder: encoder}, nil
}

func (s *Summarizer) Summarize(ctx context.Context, texts []string) ([]string, error) {
	compact := s.compact(texts)
	if compact == "" {
		return nil, domain.ErrNoParagraphs
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, summaryInstruction),
		llms.TextParts(llms.ChatMessageTypeHuman, compact),
	}

	resp, err := s.model.GenerateContent(ctx, content, llms.WithTemperature(0.5))
	if err != nil {
		return nil, fmt.Errorf("generate story summary: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("generate story summary: empty response")
	}

	return ParseParagraphs(resp.Choices[0].Content), nil
}

// compact joins the most recent user texts, trimming from the front until the
// result fits the token budget.
func (s *Summarizer) compact(texts []string) string {
	if len(texts) > compactTailTexts {
		texts = texts[len(texts)-compactTailTexts:]
	}

	for len(texts) > 1 {
		joined := strings.Join(texts, "\n")
		if len(s.encoder.Encode(joined, nil, nil)) <= compactTokenBudget {
			return joined
		}
		texts = texts[1:]
	}

	return strings.Join(texts, "\n")
}

// ParseParagraphs turns the model's numbered-list output into at most five
// clean paragraphs.
func ParseParagraphs(summary string) []string {
	var paragraphs []string
	for _, line := range strings.Split(summary, "\n") {
		line = numberPrefix.ReplaceAllString(strings.TrimSpace(line), "")
		if line == "" {
			continue
		}
		paragraphs = append(paragraphs, line)
		if len(paragraphs) == domain.MaxParagraphs {
			break
		}
	}
	return paragraphs
}
