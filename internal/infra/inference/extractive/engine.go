package extractive

import (
	"context"
	"strings"

	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
)

// Engine is an offline lead-sentence summarizer. It keeps the opening
// sentences of each input until the token budget is spent, which makes it
// deterministic and free of network calls.
type Engine struct {
	counter summarizer.TokenCounter
}

// NewEngine constructs the engine with the counter used for length bounds.
func NewEngine(counter summarizer.TokenCounter) *Engine {
	return &Engine{counter: counter}
}

// Summarize implements summarizer.Engine.
func (e *Engine) Summarize(ctx context.Context, inputs []string, params summarizer.Params) ([]string, error) {
	out := make([]string, len(inputs))
	for i, input := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.summarizeOne(input, params)
	}
	return out, nil
}

func (e *Engine) summarizeOne(input string, params summarizer.Params) string {
	maxTokens := params.MaxLength
	if maxTokens <= 0 {
		maxTokens = e.counter.Count(input)
	}

	var (
		picked []string
		used   int
	)
	for _, sentence := range splitSentences(input) {
		cost := e.counter.Count(sentence)
		if used+cost <= maxTokens {
			picked = append(picked, sentence)
			used += cost
			continue
		}
		if used < params.MinLength || len(picked) == 0 {
			if partial := e.truncate(sentence, maxTokens-used); partial != "" {
				picked = append(picked, partial)
			}
		}
		break
	}
	return strings.Join(picked, " ")
}

// truncate keeps leading words of sentence within budget tokens.
func (e *Engine) truncate(sentence string, budget int) string {
	if budget <= 0 {
		return ""
	}
	words := strings.Fields(sentence)
	used := 0
	n := 0
	for _, word := range words {
		cost := e.counter.Count(word)
		if used+cost > budget {
			break
		}
		used += cost
		n++
	}
	return strings.Join(words[:n], " ")
}

func splitSentences(text string) []string {
	words := strings.Fields(text)
	var (
		sentences []string
		start     int
	)
	for i, word := range words {
		if endsSentence(word) {
			sentences = append(sentences, strings.Join(words[start:i+1], " "))
			start = i + 1
		}
	}
	if start < len(words) {
		sentences = append(sentences, strings.Join(words[start:], " "))
	}
	return sentences
}

func endsSentence(word string) bool {
	word = strings.TrimRight(word, `"')]`)
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}

var _ summarizer.Engine = (*Engine)(nil)
