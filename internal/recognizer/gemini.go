package recognizer

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

const geminiModel = "gemini-2.5-flash"

// GeminiAnalyzer estimates face attributes through a Gemini vision model.
// Analyzer only, like OpenAIAnalyzer.
type GeminiAnalyzer struct {
	client *genai.Client
}

func NewGeminiAnalyzer(ctx context.Context, apiKey string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiAnalyzer{client: client}, nil
}

func (p *GeminiAnalyzer) Name() string {
	return geminiModel
}

func (p *GeminiAnalyzer) Analyze(ctx context.Context, img []byte, actions []string) ([]FaceAnalysis, error) {
	const maxRetries = 3

	// Resize image to max 800px to save costs
	resizedData, err := ResizeImage(img, 800)
	if err != nil {
		return nil, fmt.Errorf("failed to resize image: %w", err)
	}

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: faceAttributesPrompt},
				{InlineData: &genai.Blob{Data: resizedData, MIMEType: "image/jpeg"}},
			},
		},
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	var lastErr error
	for range maxRetries {
		resp, err := p.client.Models.GenerateContent(ctx, geminiModel, contents, config)
		if err != nil {
			return nil, fmt.Errorf("gemini API error: %w", err)
		}

		var result llmFaces
		if err := json.Unmarshal([]byte(resp.Text()), &result); err != nil {
			lastErr = err
			continue
		}
		return result.toAnalyses(actions), nil
	}

	return nil, fmt.Errorf("failed to parse Gemini response after %d attempts: %w", maxRetries, lastErr)
}
