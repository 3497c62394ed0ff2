package summarizer_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
	apperrors "github.com/yanqian/ai-summarizer/pkg/errors"
)

func TestSummarizeSingleChunkCallsEngineOnce(t *testing.T) {
	engine := &stubEngine{}
	svc := newService(engine)

	resp, err := svc.Summarize(context.Background(), summarizer.Request{Text: "Go makes backend services easier."})
	require.NoError(t, err)
	require.Equal(t, "summary-of-5-words", resp.Summary)

	require.Len(t, engine.calls, 1)
	require.Equal(t, []string{"Go makes backend services easier."}, engine.calls[0].inputs)
	require.Equal(t, summarizer.Params{MinLength: 50, MaxLength: 130, DoSample: false}, engine.calls[0].params)
}

func TestSummarizeSplitsLongTextAndJoinsInOrder(t *testing.T) {
	engine := &stubEngine{}
	svc := newService(engine)

	resp, err := svc.Summarize(context.Background(), summarizer.Request{Text: numberedWords(1500), SummaryLength: "short"})
	require.NoError(t, err)

	require.Len(t, engine.calls, 1)
	call := engine.calls[0]
	require.Len(t, call.inputs, 2)
	require.True(t, strings.HasPrefix(call.inputs[1], "word751 "))
	require.Equal(t, summarizer.Params{MinLength: 20, MaxLength: 60}, call.params)
	require.Equal(t, "summary-of-750-words summary-of-750-words", resp.Summary)
}

func TestSummarizeChunkCountMatchesCeil(t *testing.T) {
	for _, n := range []int{1, 700, 750, 751, 2250, 2251} {
		n := n
		t.Run(fmt.Sprintf("%d words", n), func(t *testing.T) {
			t.Parallel()
			engine := &stubEngine{}
			_, err := newService(engine).Summarize(context.Background(), summarizer.Request{Text: numberedWords(n)})
			require.NoError(t, err)
			require.Len(t, engine.calls[0].inputs, (n+summarizer.ChunkWords-1)/summarizer.ChunkWords)
		})
	}
}

func TestSummarizeRejectsInvalidText(t *testing.T) {
	tests := []struct {
		name string
		text any
	}{
		{name: "empty", text: ""},
		{name: "whitespace", text: "   \n\t"},
		{name: "number", text: float64(123)},
		{name: "missing", text: nil},
		{name: "list", text: []any{"a", "b"}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			engine := &stubEngine{}
			_, err := newService(engine).Summarize(context.Background(), summarizer.Request{Text: tt.text})
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, summarizer.CodeInvalidInput))
			require.Equal(t, summarizer.MsgInvalidInput, apperrors.MessageOf(err))
			require.Empty(t, engine.calls)
		})
	}
}

func TestSummarizeUnavailableModelWinsOverValidation(t *testing.T) {
	loadErr := errors.New("model download failed")
	model := summarizer.UnavailableModel("sshleifer/distilbart-cnn-12-6", "huggingface", loadErr)
	svc := summarizer.NewService(model, wordCounter{}, &stubRecorder{}, newTestLogger())

	for _, text := range []any{"valid text", "", float64(1), nil} {
		_, err := svc.Summarize(context.Background(), summarizer.Request{Text: text})
		require.True(t, apperrors.IsCode(err, summarizer.CodeModelUnavailable))
		require.Equal(t, summarizer.MsgModelUnavailable, apperrors.MessageOf(err))
		require.ErrorIs(t, err, loadErr)
	}
	require.False(t, svc.Model().Available())
}

func TestSummarizeUnknownLengthFallsBackToMedium(t *testing.T) {
	for _, length := range []any{nil, "huge", "", float64(2), true} {
		engine := &stubEngine{}
		_, err := newService(engine).Summarize(context.Background(), summarizer.Request{Text: "some text", SummaryLength: length})
		require.NoError(t, err)
		require.Equal(t, summarizer.Params{MinLength: 50, MaxLength: 130}, engine.calls[0].params)
	}
}

func TestSummarizeEngineFailure(t *testing.T) {
	engine := &stubEngine{err: errors.New("cuda out of memory")}
	recorder := &stubRecorder{}
	svc := summarizer.NewService(summarizer.NewModel("m", "stub", engine), wordCounter{}, recorder, newTestLogger())

	resp, err := svc.Summarize(context.Background(), summarizer.Request{Text: numberedWords(900)})
	require.Error(t, err)
	require.Empty(t, resp.Summary)
	require.True(t, apperrors.IsCode(err, summarizer.CodeInferenceFailed))
	require.Equal(t, summarizer.MsgSummaryFailed, apperrors.MessageOf(err))
	require.Equal(t, []string{"medium/inference_failed"}, recorder.outcomes)
	require.Equal(t, 1, recorder.inferenceErrors)
}

func TestSummarizeEngineResultCountMismatch(t *testing.T) {
	engine := &stubEngine{fixed: []string{"only one"}}
	_, err := newService(engine).Summarize(context.Background(), summarizer.Request{Text: numberedWords(1000)})
	require.True(t, apperrors.IsCode(err, summarizer.CodeInferenceFailed))
}

func TestSummarizeIsDeterministic(t *testing.T) {
	engine := &stubEngine{}
	svc := newService(engine)
	req := summarizer.Request{Text: numberedWords(1600), SummaryLength: "long"}

	first, err := svc.Summarize(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Summarize(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first, second)
	for _, call := range engine.calls {
		require.False(t, call.params.DoSample)
	}
}

func TestSummarizeRecordsChunkTokens(t *testing.T) {
	recorder := &stubRecorder{}
	svc := summarizer.NewService(summarizer.NewModel("m", "stub", &stubEngine{}), wordCounter{}, recorder, newTestLogger())

	_, err := svc.Summarize(context.Background(), summarizer.Request{Text: numberedWords(800), SummaryLength: "long"})
	require.NoError(t, err)
	require.Equal(t, []int{750, 50}, recorder.chunkTokens)
	require.Equal(t, []string{"long/ok"}, recorder.outcomes)
}

func newService(engine summarizer.Engine) summarizer.Service {
	return summarizer.NewService(summarizer.NewModel("test-model", "stub", engine), wordCounter{}, &stubRecorder{}, newTestLogger())
}

func numberedWords(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("word%d", i+1)
	}
	return strings.Join(parts, " ")
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type engineCall struct {
	inputs []string
	params summarizer.Params
}

type stubEngine struct {
	mu    sync.Mutex
	calls []engineCall
	fixed []string
	err   error
}

func (s *stubEngine) Summarize(_ context.Context, inputs []string, params summarizer.Params) ([]string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, engineCall{inputs: inputs, params: params})
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if s.fixed != nil {
		return s.fixed, nil
	}
	out := make([]string, len(inputs))
	for i, input := range inputs {
		out[i] = fmt.Sprintf("summary-of-%d-words", len(strings.Fields(input)))
	}
	return out, nil
}

type wordCounter struct{}

func (wordCounter) Count(text string) int { return len(strings.Fields(text)) }

type stubRecorder struct {
	outcomes        []string
	chunkTokens     []int
	inferenceErrors int
}

func (r *stubRecorder) ObserveSummary(profile, outcome string, _ int) {
	r.outcomes = append(r.outcomes, profile+"/"+outcome)
}

func (r *stubRecorder) ObserveChunkTokens(tokens int) {
	r.chunkTokens = append(r.chunkTokens, tokens)
}

func (r *stubRecorder) ObserveInference(_ string, _ time.Duration, err error) {
	if err != nil {
		r.inferenceErrors++
	}
}
