package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/ai-summarizer/pkg/errors"
)

// Service exposes summarization capabilities.
type Service interface {
	Summarize(ctx context.Context, req Request) (Response, error)
	Model() *Model
}

// Recorder receives per request measurements.
type Recorder interface {
	ObserveSummary(profile, outcome string, chunks int)
	ObserveChunkTokens(tokens int)
	ObserveInference(provider string, latency time.Duration, err error)
}

type service struct {
	model    *Model
	counter  TokenCounter
	recorder Recorder
	logger   *slog.Logger
}

// NewService is a wire provider for the summarizer domain.
func NewService(model *Model, counter TokenCounter, recorder Recorder, logger *slog.Logger) Service {
	return &service{
		model:    model,
		counter:  counter,
		recorder: recorder,
		logger:   logger.With("component", "summarizer.service"),
	}
}

func (s *service) Model() *Model {
	return s.model
}

func (s *service) Summarize(ctx context.Context, req Request) (Response, error) {
	if !s.model.Available() {
		return Response{}, apperrors.Wrap(CodeModelUnavailable, MsgModelUnavailable, s.model.LoadError())
	}

	text, ok := req.Text.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return Response{}, apperrors.Wrap(CodeInvalidInput, MsgInvalidInput, nil)
	}

	profile := ResolveProfile(req.SummaryLength)
	chunks := SplitIntoChunks(text, ChunkWords)
	if len(chunks) == 0 {
		s.recorder.ObserveSummary(profile.Name, "empty", 0)
		return Response{}, nil
	}

	tokens := 0
	for _, chunk := range chunks {
		n := s.counter.Count(chunk.Text)
		tokens += n
		s.recorder.ObserveChunkTokens(n)
	}
	s.logger.Info("input text split into chunks",
		"chunks", len(chunks),
		"summary_length", profile.Name,
		"requested_length", req.SummaryLength,
		"estimated_tokens", tokens,
	)

	start := time.Now()
	summaries, err := s.model.engine.Summarize(ctx, chunkTexts(chunks), Params{
		MinLength: profile.MinLength,
		MaxLength: profile.MaxLength,
		DoSample:  false,
	})
	if err == nil && len(summaries) != len(chunks) {
		err = fmt.Errorf("engine returned %d summaries for %d chunks", len(summaries), len(chunks))
	}
	s.recorder.ObserveInference(s.model.Provider(), time.Since(start), err)
	if err != nil {
		s.recorder.ObserveSummary(profile.Name, CodeInferenceFailed, len(chunks))
		return Response{}, apperrors.Wrap(CodeInferenceFailed, MsgSummaryFailed, err)
	}

	parts := make([]string, len(summaries))
	for i, summary := range summaries {
		parts[i] = strings.TrimSpace(summary)
	}
	s.recorder.ObserveSummary(profile.Name, "ok", len(chunks))
	s.logger.Info("summary generated", "chunks", len(chunks), "duration_ms", time.Since(start).Milliseconds())

	return Response{Summary: strings.Join(parts, " ")}, nil
}
