package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"

	"studymatrix-backend/internal/analysis"
)

const mimePDF = "application/pdf"

// Client implements analysis.Client using a Vertex AI Gemini model with a
// schema-constrained JSON response.
type Client struct {
	model      *genai.GenerativeModel
	baseClient *genai.Client
}

// NewClient constructs a Gemini-backed analysis client.
func NewClient(ctx context.Context, projectID, region, model string) (*Client, error) {
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(region) == "" {
		return nil, fmt.Errorf("NewClient: projectID and region cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("NewClient: model cannot be empty")
	}

	baseClient, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	generativeModel := baseClient.GenerativeModel(model)
	generativeModel.GenerationConfig = genai.GenerationConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   StudySchema(),
		Temperature:      genai.Ptr[float32](0.0),
	}

	return &Client{
		model:      generativeModel,
		baseClient: baseClient,
	}, nil
}

// AnalyzeStudy sends the PDF inline with the extraction prompt and returns
// the model's JSON output.
func (c *Client) AnalyzeStudy(ctx context.Context, input analysis.Input) (json.RawMessage, error) {
	data, err := base64.StdEncoding.DecodeString(input.PDFBase64)
	if err != nil {
		return nil, fmt.Errorf("decode payload for %s: %w", input.FileName, err)
	}

	resp, err := c.model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimePDF, Data: data},
		genai.Text(ExtractionPrompt),
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("invalid JSON from gemini")
	}
	return json.RawMessage(text), nil
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini response missing candidates")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", fmt.Errorf("gemini response empty content")
	}
	return out, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.baseClient != nil {
		return c.baseClient.Close()
	}
	return nil
}

var _ analysis.Client = (*Client)(nil)
