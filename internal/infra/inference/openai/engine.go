package openai

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
)

// deterministicSeed pins sampling on providers that honor the seed parameter.
const deterministicSeed = 42

// Engine summarizes through any OpenAI compatible chat completion endpoint.
type Engine struct {
	client *goopenai.Client
	model  string
}

// NewEngine builds the engine. baseURL may point at a compatible provider
// such as a local Ollama or vLLM server.
func NewEngine(apiKey, baseURL, model string, timeout time.Duration) (*Engine, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("openai model cannot be empty")
	}
	if strings.TrimSpace(apiKey) == "" && strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("openai api key cannot be empty")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	clientConfig := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	return &Engine{
		client: goopenai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Summarize issues one completion per input, in order. The first failure
// aborts the batch.
func (e *Engine) Summarize(ctx context.Context, inputs []string, params summarizer.Params) ([]string, error) {
	out := make([]string, 0, len(inputs))
	for i, input := range inputs {
		summary, err := e.summarizeOne(ctx, input, params)
		if err != nil {
			return nil, fmt.Errorf("summarize chunk %d: %w", i, err)
		}
		out = append(out, summary)
	}
	return out, nil
}

func (e *Engine) summarizeOne(ctx context.Context, input string, params summarizer.Params) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:     e.model,
		MaxTokens: params.MaxLength,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt(params)},
			{Role: goopenai.ChatMessageRoleUser, Content: input},
		},
	}
	if params.DoSample {
		req.Temperature = 0.7
	} else {
		// go-openai drops a zero temperature from the payload.
		req.Temperature = math.SmallestNonzeroFloat32
		seed := deterministicSeed
		req.Seed = &seed
	}

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		return "", errors.New("chat completion returned empty content")
	}
	return summary, nil
}

func systemPrompt(params summarizer.Params) string {
	return fmt.Sprintf(
		"You are a news summarization model. Summarize the user's text in plain prose between %d and %d tokens. Do not add commentary, headings or lists.",
		params.MinLength, params.MaxLength,
	)
}

var _ summarizer.Engine = (*Engine)(nil)
