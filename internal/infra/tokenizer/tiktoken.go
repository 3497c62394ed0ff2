package tokenizer

import (
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
)

// DefaultEncoding is the BPE used for token estimates.
const DefaultEncoding = "cl100k_base"

// Counter estimates token counts with tiktoken. When the encoding cannot be
// loaded it falls back to a words based heuristic.
type Counter struct {
	enc *tiktoken.Tiktoken
}

// NewCounter loads the named encoding. Loading may hit the network on a cold
// cache, so failures are logged and degrade to the heuristic.
func NewCounter(encoding string, logger *slog.Logger) *Counter {
	if strings.TrimSpace(encoding) == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		logger.Warn("tiktoken encoding unavailable, using word heuristic", "encoding", encoding, "error", err)
		return &Counter{}
	}
	return &Counter{enc: enc}
}

// NewHeuristicCounter never touches tiktoken.
func NewHeuristicCounter() *Counter {
	return &Counter{}
}

// Count implements summarizer.TokenCounter.
func (c *Counter) Count(text string) int {
	if text == "" {
		return 0
	}
	if c.enc != nil {
		return len(c.enc.Encode(text, nil, nil))
	}
	return estimate(text)
}

// Exact reports whether counts come from a real encoding.
func (c *Counter) Exact() bool {
	return c.enc != nil
}

// estimate assumes roughly four tokens per three English words.
func estimate(text string) int {
	words := len(strings.Fields(text))
	return (words*4 + 2) / 3
}

var _ summarizer.TokenCounter = (*Counter)(nil)
