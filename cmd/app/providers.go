package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
	"github.com/yanqian/ai-summarizer/internal/infra/config"
	"github.com/yanqian/ai-summarizer/internal/infra/inference/extractive"
	"github.com/yanqian/ai-summarizer/internal/infra/inference/huggingface"
	"github.com/yanqian/ai-summarizer/internal/infra/inference/openai"
	"github.com/yanqian/ai-summarizer/internal/infra/tokenizer"
	"github.com/yanqian/ai-summarizer/pkg/metrics"
)

const warmupText = "The service loads its summarization model once at startup. " +
	"This short passage is summarized a single time to confirm the model responds before traffic is accepted."

func provideTokenCounter(cfg *config.Config, logger *slog.Logger) *tokenizer.Counter {
	encoding := strings.TrimSpace(cfg.Model.Encoding)
	if encoding == "" || strings.EqualFold(encoding, "none") {
		return tokenizer.NewHeuristicCounter()
	}
	return tokenizer.NewCounter(encoding, logger.With("component", "tokenizer"))
}

// provideModel loads the engine exactly once. A failure is logged and turned
// into an unavailable handle so the server still starts.
func provideModel(cfg *config.Config, counter *tokenizer.Counter, collector *metrics.Collector, logger *slog.Logger) *summarizer.Model {
	logger = logger.With("component", "bootstrap.model", "provider", cfg.Model.Provider, "model", cfg.Model.ID)
	logger.Info("loading summarization model")

	engine, err := buildEngine(cfg, counter)
	if err == nil && cfg.Model.Warmup {
		err = warmup(engine, cfg.Model.Timeout)
	}
	if err != nil {
		logger.Error("error loading model", "error", err)
		collector.SetModelAvailable(false)
		return summarizer.UnavailableModel(cfg.Model.ID, cfg.Model.Provider, err)
	}

	logger.Info("summarization model loaded")
	collector.SetModelAvailable(true)
	return summarizer.NewModel(cfg.Model.ID, cfg.Model.Provider, engine)
}

func buildEngine(cfg *config.Config, counter *tokenizer.Counter) (summarizer.Engine, error) {
	switch cfg.Model.Provider {
	case config.ProviderHuggingFace:
		return huggingface.NewClient(cfg.Model.APIKey, cfg.Model.BaseURL, cfg.Model.ID, cfg.Model.Timeout)
	case config.ProviderOpenAI:
		return openai.NewEngine(cfg.Model.APIKey, cfg.Model.BaseURL, cfg.Model.ID, cfg.Model.Timeout)
	case config.ProviderExtractive:
		return extractive.NewEngine(counter), nil
	default:
		return nil, fmt.Errorf("unsupported model provider %q", cfg.Model.Provider)
	}
}

func warmup(engine summarizer.Engine, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	profile := summarizer.ResolveProfile("short")
	out, err := engine.Summarize(ctx, []string{warmupText}, summarizer.Params{
		MinLength: 5,
		MaxLength: profile.MaxLength,
	})
	if err != nil {
		return fmt.Errorf("warmup summarization: %w", err)
	}
	if len(out) != 1 {
		return fmt.Errorf("warmup summarization returned %d results", len(out))
	}
	return nil
}
