package summarizer

import "context"

// Params carries the decoding settings for one engine call.
type Params struct {
	MinLength int
	MaxLength int
	// DoSample is always false when issued by the service so identical input
	// produces identical output.
	DoSample bool
}

// Engine is the summarization backend. It returns exactly one summary per
// input, in input order.
type Engine interface {
	Summarize(ctx context.Context, inputs []string, params Params) ([]string, error)
}

// TokenCounter estimates the model token count of a text.
type TokenCounter interface {
	Count(text string) int
}

// Model is the process wide handle to a loaded engine. It is built once at
// startup and never mutated.
type Model struct {
	id       string
	provider string
	engine   Engine
	loadErr  error
}

// NewModel wraps a successfully constructed engine.
func NewModel(id, provider string, engine Engine) *Model {
	return &Model{id: id, provider: provider, engine: engine}
}

// UnavailableModel records a failed load. The handle stays unavailable for
// the lifetime of the process.
func UnavailableModel(id, provider string, err error) *Model {
	return &Model{id: id, provider: provider, loadErr: err}
}

// ID returns the model identifier the engine is bound to.
func (m *Model) ID() string {
	if m == nil {
		return ""
	}
	return m.id
}

// Provider names the engine implementation.
func (m *Model) Provider() string {
	if m == nil {
		return ""
	}
	return m.provider
}

// Available reports whether an engine was loaded.
func (m *Model) Available() bool {
	return m != nil && m.engine != nil
}

// LoadError returns the error recorded when loading failed.
func (m *Model) LoadError() error {
	if m == nil {
		return nil
	}
	return m.loadErr
}
