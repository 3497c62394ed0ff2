package summarizer

import (
	"bytes"
	"encoding/json"
	"errors"

	apperrors "github.com/yanqian/ai-summarizer/pkg/errors"
)

// Error codes returned by the summarizer domain.
const (
	CodeModelUnavailable = "model_unavailable"
	CodeInvalidInput     = "invalid_input"
	CodeMalformedRequest = "malformed_request"
	CodeInferenceFailed  = "inference_failed"
)

// Client facing messages. Only these strings ever reach the response body.
const (
	MsgModelUnavailable = "Summarization model is not available."
	MsgInvalidInput     = "Input text must be a non-empty string."
	MsgSummaryFailed    = "Failed to generate summary."
)

// Request represents the incoming summarization payload. Both fields keep
// their raw JSON type so validation can tell a number apart from a string.
type Request struct {
	Text          any `json:"text"`
	SummaryLength any `json:"summary_length,omitempty"`
}

// Response is returned by the summarize endpoint.
type Response struct {
	Summary string `json:"summary"`
}

// LengthProfile bounds the summary length in model tokens.
type LengthProfile struct {
	Name      string
	MinLength int
	MaxLength int
}

const defaultProfile = "medium"

var lengthProfiles = map[string]LengthProfile{
	"short":  {Name: "short", MinLength: 20, MaxLength: 60},
	"medium": {Name: "medium", MinLength: 50, MaxLength: 130},
	"long":   {Name: "long", MinLength: 100, MaxLength: 200},
}

// ResolveProfile maps a requested length to a profile. Anything that is not
// one of the known names, including a missing or non-string value, resolves
// to the medium profile.
func ResolveProfile(requested any) LengthProfile {
	if name, ok := requested.(string); ok {
		if profile, found := lengthProfiles[name]; found {
			return profile
		}
	}
	return lengthProfiles[defaultProfile]
}

// Profiles lists the known length profiles, shortest first.
func Profiles() []LengthProfile {
	return []LengthProfile{lengthProfiles["short"], lengthProfiles["medium"], lengthProfiles["long"]}
}

// DecodeRequest parses a raw request body. Bodies that are not a JSON object
// are rejected with CodeMalformedRequest.
func DecodeRequest(raw []byte) (Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Request{}, apperrors.Wrap(CodeMalformedRequest, MsgSummaryFailed, err)
	}
	if fields == nil {
		return Request{}, apperrors.Wrap(CodeMalformedRequest, MsgSummaryFailed, errors.New("request body is null"))
	}

	var req Request
	if v, ok := fields["text"]; ok {
		if err := decodeField(v, &req.Text); err != nil {
			return Request{}, apperrors.Wrap(CodeMalformedRequest, MsgSummaryFailed, err)
		}
	}
	if v, ok := fields["summary_length"]; ok {
		if err := decodeField(v, &req.SummaryLength); err != nil {
			return Request{}, apperrors.Wrap(CodeMalformedRequest, MsgSummaryFailed, err)
		}
	}
	return req, nil
}

// decodeField keeps numbers as json.Number so values outside the float64
// range stay valid non-string input.
func decodeField(raw json.RawMessage, dst *any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(dst)
}
