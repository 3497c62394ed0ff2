package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yanqian/ai-summarizer/internal/domain/summarizer"
)

const defaultBaseURL = "https://api-inference.huggingface.co"

// SummarizationRequest is the payload sent to the summarization pipeline.
type SummarizationRequest struct {
	Inputs     []string   `json:"inputs"`
	Parameters Parameters `json:"parameters"`
	Options    Options    `json:"options"`
}

// Parameters mirrors the generation arguments of the summarization pipeline.
type Parameters struct {
	MinLength int  `json:"min_length"`
	MaxLength int  `json:"max_length"`
	DoSample  bool `json:"do_sample"`
}

// Options controls Inference API behavior.
type Options struct {
	WaitForModel bool `json:"wait_for_model"`
	UseCache     bool `json:"use_cache"`
}

// SummarizationResult is one element of the pipeline output.
type SummarizationResult struct {
	SummaryText string `json:"summary_text"`
}

type apiError struct {
	Error string `json:"error"`
}

// Client calls a hosted summarization pipeline bound to a single model.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewClient constructs a client for model. The hosted Inference API requires
// an API key; custom base URLs may run without one.
func NewClient(apiKey, baseURL, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("huggingface model id cannot be empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("parse huggingface base url: %w", err)
	}
	if baseURL == defaultBaseURL && strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("huggingface api key cannot be empty")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Model returns the bound model id.
func (c *Client) Model() string {
	return c.model
}

// Summarize runs the pipeline over inputs and returns one summary per input.
func (c *Client) Summarize(ctx context.Context, inputs []string, params summarizer.Params) ([]string, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	body, err := c.doRequest(ctx, SummarizationRequest{
		Inputs: inputs,
		Parameters: Parameters{
			MinLength: params.MinLength,
			MaxLength: params.MaxLength,
			DoSample:  params.DoSample,
		},
		Options: Options{WaitForModel: true, UseCache: !params.DoSample},
	})
	if err != nil {
		return nil, err
	}

	var results []SummarizationResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("decode summarization response: %w", err)
	}
	if len(results) != len(inputs) {
		return nil, fmt.Errorf("summarization returned %d results for %d inputs", len(results), len(inputs))
	}
	out := make([]string, len(results))
	for i, result := range results {
		out[i] = strings.TrimSpace(result.SummaryText)
	}
	return out, nil
}

func (c *Client) doRequest(ctx context.Context, req SummarizationRequest) ([]byte, error) {
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request summarization: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		var apiErr apiError
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("huggingface request failed: status=%d error=%s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("huggingface request failed: status=%d body=%s", resp.StatusCode, string(payload))
	}

	return io.ReadAll(resp.Body)
}

func (c *Client) newHTTPRequest(ctx context.Context, req SummarizationRequest) (*http.Request, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode summarization request: %w", err)
	}
	endpoint := c.baseURL + "/models/" + c.model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build summarization request: %w", err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	return httpReq, nil
}

var _ summarizer.Engine = (*Client)(nil)
