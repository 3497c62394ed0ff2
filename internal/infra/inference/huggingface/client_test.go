package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
)

func TestClientSummarizeSendsPipelineRequest(t *testing.T) {
	var (
		mu                   sync.Mutex
		got                  SummarizationRequest
		method, path, bearer string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		method, path, bearer = r.Method, r.URL.Path, r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"summary_text":" first summary "},{"summary_text":"second summary"}]`))
	}))
	defer server.Close()

	client, err := NewClient("hf_test", server.URL, "sshleifer/distilbart-cnn-12-6", time.Second)
	require.NoError(t, err)

	out, err := client.Summarize(context.Background(), []string{"chunk one", "chunk two"}, summarizer.Params{MinLength: 20, MaxLength: 60})
	require.NoError(t, err)
	require.Equal(t, []string{"first summary", "second summary"}, out)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, http.MethodPost, method)
	require.Equal(t, "/models/sshleifer/distilbart-cnn-12-6", path)
	require.Equal(t, "Bearer hf_test", bearer)

	require.Equal(t, []string{"chunk one", "chunk two"}, got.Inputs)
	require.Equal(t, Parameters{MinLength: 20, MaxLength: 60, DoSample: false}, got.Parameters)
	require.True(t, got.Options.WaitForModel)
}

func TestClientSummarizeSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"Model is currently loading"}`))
	}))
	defer server.Close()

	client, err := NewClient("", server.URL, "m", time.Second)
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), []string{"text"}, summarizer.Params{MinLength: 1, MaxLength: 2})
	require.EqualError(t, err, "huggingface request failed: status=503 error=Model is currently loading")
}

func TestClientSummarizeRejectsCountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"summary_text":"only"}]`))
	}))
	defer server.Close()

	client, err := NewClient("", server.URL, "m", time.Second)
	require.NoError(t, err)

	_, err = client.Summarize(context.Background(), []string{"a", "b"}, summarizer.Params{})
	require.EqualError(t, err, "summarization returned 1 results for 2 inputs")
}

func TestClientSummarizeEmptyInputSkipsRequest(t *testing.T) {
	client, err := NewClient("", "http://127.0.0.1:1", "m", time.Second)
	require.NoError(t, err)

	out, err := client.Summarize(context.Background(), nil, summarizer.Params{})
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		apiKey  string
		baseURL string
		model   string
		wantErr string
	}{
		{name: "missing model", apiKey: "k", model: " ", wantErr: "huggingface model id cannot be empty"},
		{name: "hosted api needs key", model: "m", wantErr: "huggingface api key cannot be empty"},
		{name: "relative base url", baseURL: "not a url", model: "m", wantErr: "parse huggingface base url"},
		{name: "self hosted without key", baseURL: "http://localhost:8000/", model: "m"},
		{name: "hosted with key", apiKey: "k", model: "m"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client, err := NewClient(tt.apiKey, tt.baseURL, tt.model, 0)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.model, client.Model())
		})
	}
}
