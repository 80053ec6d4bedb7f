package analysis

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts the external document-analysis service. Each call is an
// independent request; implementations hold no per-call state.
type Client interface {
	AnalyzeStudy(ctx context.Context, input Input) (json.RawMessage, error)
}

// Input captures one analysis request: the PDF payload as a text-safe
// base64 string plus the display filename.
type Input struct {
	FileName  string
	PDFBase64 string
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("analysis provider not configured")

// PlaceholderClient is a stub implementation used when no provider is
// configured; every file it touches lands in the error state.
type PlaceholderClient struct{}

// AnalyzeStudy returns ErrNotConfigured.
func (PlaceholderClient) AnalyzeStudy(ctx context.Context, input Input) (json.RawMessage, error) {
	_ = ctx
	_ = input
	return nil, ErrNotConfigured
}

var _ Client = PlaceholderClient{}
